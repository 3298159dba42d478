package commands

import (
	"fmt"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/app"
	"github.com/spf13/cobra"
)

// NewServeCommand runs the HTTP API until SIGINT or SIGTERM.
func NewServeCommand(opts *Options) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Example: `  # Serve on the configured port
  agentboard serve

  # Override the port
  agentboard serve --port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config
			if port != 0 {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")
	return cmd
}
