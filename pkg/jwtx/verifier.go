package jwtx

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid covers every verification failure: bad signature, malformed
// structure, wrong algorithm, missing claims, expired. Callers deliberately
// get a single error so responses don't leak which check tripped.
var ErrInvalid = errors.New("jwtx: invalid token")

// Verifier validates tokens against a public key. It is the only piece the
// document service needs; it never sees the private key.
type Verifier struct {
	key crypto.PublicKey
}

// NewVerifier loads a PKIX PEM public key (RSA or Ed25519).
func NewVerifier(pemKey []byte) (*Verifier, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("jwtx: invalid PEM for public key")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse public key: %w", err)
	}

	switch parsed.(type) {
	case *rsa.PublicKey, ed25519.PublicKey:
		return &Verifier{key: parsed}, nil
	default:
		return nil, fmt.Errorf("jwtx: unsupported public key type %T", parsed)
	}
}

// Verify checks the signature and standard claims (including exp) and returns
// the decoded claim set. All failures map to ErrInvalid.
func (v *Verifier) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		switch t.Method.Alg() {
		case jwt.SigningMethodRS256.Alg(), jwt.SigningMethodEdDSA.Alg():
			return v.key, nil
		default:
			return nil, fmt.Errorf("unexpected algorithm %q", t.Method.Alg())
		}
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalid
	}

	if claims.Subject == "" || claims.Action == "" {
		return Claims{}, ErrInvalid
	}

	return claims, nil
}
