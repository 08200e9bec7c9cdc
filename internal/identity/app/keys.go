package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/paperloop/paperloop/pkg/jwtx"
)

// initSigner loads the signing key from disk when configured, otherwise it
// generates an ephemeral Ed25519 key. Ephemeral keys invalidate every
// outstanding token on restart, which is fine for dev and wrong for prod.
func initSigner(cfg Config, logger *slog.Logger) (*jwtx.Signer, error) {
	if cfg.SigningKeyFile != "" {
		pemKey, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read signing key: %w", err)
		}
		signer, err := jwtx.NewSigner(pemKey)
		if err != nil {
			return nil, fmt.Errorf("parse signing key: %w", err)
		}
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
		return signer, nil
	}

	pemKey, err := jwtx.GenerateEd25519PEM()
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	signer, err := jwtx.NewSigner(pemKey)
	if err != nil {
		return nil, fmt.Errorf("parse generated key: %w", err)
	}
	logger.Warn("using ephemeral signing key; tokens will not survive a restart")
	return signer, nil
}
