package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store/drivers/postgres"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/agentboard/pkg/cryptox"
	"github.com/aussiebroadwan/agentboard/pkg/jwtx"
)

// OperatorKeys verify (and, for the CLI, mint) operator JWTs.
type OperatorKeys struct {
	Signer   *jwtx.Signer
	KeySet   *jwtx.KeySet
	Verifier *jwtx.Verifier
}

// InitOperatorKeys loads the Ed25519 key at cfg.OperatorKeyFile, generating
// it on first start. Tokens stay valid across restarts as long as the file
// survives.
func InitOperatorKeys(cfg Config, logger *slog.Logger) (*OperatorKeys, error) {
	priv, err := cryptox.LoadOrGenerateEd25519Key(cfg.OperatorKeyFile)
	if err != nil {
		return nil, fmt.Errorf("operator key: %w", err)
	}

	signer, err := jwtx.NewSigner("", priv)
	if err != nil {
		return nil, fmt.Errorf("operator signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("operator keyset: %w", err)
	}

	logger.Info("operator signing key loaded",
		"kid", signer.KID(),
		"alg", signer.Alg(),
		"issuer", cfg.Issuer,
	)

	return &OperatorKeys{
		Signer:   signer,
		KeySet:   keys,
		Verifier: jwtx.NewVerifier(keys, cfg.Issuer),
	}, nil
}

// LoadPepper reads the API key fingerprint pepper, generating it on first start.
func LoadPepper(cfg Config) ([]byte, error) {
	pepper, err := cryptox.LoadOrGeneratePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("pepper: %w", err)
	}
	return pepper, nil
}

// OpenStore connects the driver DatabaseURL selects and applies migrations.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	if cfg.IsPostgres() {
		db, err = postgres.NewStore(ctx, cfg.DatabaseURL)
	} else {
		db, err = sqlite.NewStore(cfg.DatabaseURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}
