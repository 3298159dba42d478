package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/app"
	"github.com/aussiebroadwan/agentboard/pkg/jwtx"
	"github.com/spf13/cobra"
)

// NewTokenCommand mints operator tokens with the local signing key.
func NewTokenCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Operator token utilities",
	}

	cmd.AddCommand(newTokenMintCommand(opts))
	return cmd
}

func newTokenMintCommand(opts *Options) *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Sign an operator JWT",
		Long: `Sign an operator JWT with the key at operator_key_file.

The server verifies tokens against the same key, so mint on the host (or
with the same key file) the server runs with.`,
		Example: `  # Read-only token for a dashboard
  agentboard token mint --subject dashboard --scope agents:read --ttl 24h

  # Full access for an operator session
  agentboard token mint --subject alice@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				return errors.New("--ttl must be positive")
			}

			cfg := opts.Config
			keys, err := app.InitOperatorKeys(cfg, cliLogger(cmd, cfg))
			if err != nil {
				return err
			}

			token, err := keys.Signer.Sign(jwtx.NewClaims(subject, cfg.Issuer, scopes, ttl, time.Now()))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "Token subject")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{"agents:read", "agents:write"}, "Scopes to grant (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}
