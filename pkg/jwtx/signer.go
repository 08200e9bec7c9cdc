package jwtx

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs action-scoped tokens with an asymmetric private key. The
// algorithm follows the key type: RS256 for RSA keys, EdDSA for Ed25519.
type Signer struct {
	method jwt.SigningMethod
	key    crypto.PrivateKey
	pub    crypto.PublicKey
}

// NewSigner loads a private key from PEM bytes. RSA keys may be PKCS1 or
// PKCS8, Ed25519 keys must be PKCS8.
func NewSigner(pemKey []byte) (*Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for private key")
	}

	var parsed any
	var err error
	switch block.Type {
	case "RSA PRIVATE KEY":
		parsed, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("jwtx: unexpected PEM block %q", block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse private key: %w", err)
	}

	switch key := parsed.(type) {
	case *rsa.PrivateKey:
		return &Signer{method: jwt.SigningMethodRS256, key: key, pub: key.Public()}, nil
	case ed25519.PrivateKey:
		return &Signer{method: jwt.SigningMethodEdDSA, key: key, pub: key.Public()}, nil
	default:
		return nil, fmt.Errorf("jwtx: unsupported private key type %T", parsed)
	}
}

// Alg returns the JWS algorithm name the signer produces.
func (s *Signer) Alg() string { return s.method.Alg() }

// Sign issues a token for subject scoped to action, expiring after ttl.
func (s *Signer) Sign(subject, action string, ttl time.Duration) (string, error) {
	return s.SignAt(subject, action, ttl, time.Now().UTC())
}

// SignAt is Sign with an explicit issue time, useful for tests.
func (s *Signer) SignAt(subject, action string, ttl time.Duration, now time.Time) (string, error) {
	t := jwt.NewWithClaims(s.method, NewClaims(subject, action, ttl, now))
	return t.SignedString(s.key)
}

// Verifier returns a verifier for the signer's public key.
func (s *Signer) Verifier() *Verifier {
	return &Verifier{key: s.pub}
}

// PublicPEM encodes the signer's public key in PKIX PEM form so it can be
// handed to services that only verify.
func (s *Signer) PublicPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(s.pub)
	if err != nil {
		return nil, fmt.Errorf("jwtx: marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
