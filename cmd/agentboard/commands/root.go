// Package commands implements the agentboard command line.
package commands

import (
	"log/slog"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/app"
	"github.com/aussiebroadwan/agentboard/pkg/slogx"
	"github.com/spf13/cobra"
)

// Options are shared by every subcommand. Config is populated before RunE.
type Options struct {
	ConfigPath string
	Config     app.Config
}

// NewRootCommand builds the agentboard CLI. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "agentboard",
		Short: "Agent registry with paginated listings and rate-limited API key rotation",
		Long: `agentboard registers automated agents, issues their API keys and lets
them rotate those keys with an optional grace period.

Configuration is read from defaults, then the YAML file given by --config
(or $AGENTBOARD_CONFIG), then environment variables.`,
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.Config = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file path (YAML)")

	serve := NewServeCommand(opts)
	rootCmd.RunE = serve.RunE

	rootCmd.AddCommand(
		serve,
		NewMigrateCommand(opts),
		NewAgentsCommand(opts),
		NewTokenCommand(opts),
	)

	return rootCmd
}

// cliLogger keeps logs on stderr so command output stays pipeable.
func cliLogger(cmd *cobra.Command, cfg app.Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "agentboard",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   "warn",
		Format:  "text",
		Output:  cmd.ErrOrStderr(),
	})
}
