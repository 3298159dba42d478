package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/app"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/service"
	"github.com/spf13/cobra"
)

// NewAgentsCommand groups agent administration that works directly on the
// database, e.g. registering the first agent before any operator token exists.
func NewAgentsCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage agents directly in the database",
	}

	cmd.AddCommand(newAgentsCreateCommand(opts))
	return cmd
}

type createdAgentOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	APIKey      string `json:"apiKey"`
}

func newAgentsCreateCommand(opts *Options) *cobra.Command {
	var (
		name        string
		description string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register an agent and print its first API key",
		Long: `Register an agent and print its first API key.

The key is printed once and cannot be recovered; rotate it if it is lost.`,
		Example: `  agentboard agents create --name builder --description "Runs CI builds"
  agentboard agents create --name deployer --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config

			db, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			pepper, err := app.LoadPepper(cfg)
			if err != nil {
				return err
			}

			agents := &service.AgentService{Store: db, Pepper: pepper, Paginator: cfg.Paginator()}
			created, err := agents.CreateAgent(cmd.Context(), service.CreateAgentRequest{
				Name:        name,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("create agent: %w", err)
			}

			out := createdAgentOutput{
				ID:          created.Agent.ID,
				Name:        created.Agent.Name,
				Description: created.Agent.Description,
				APIKey:      created.APIKey,
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID:\t%s\n", out.ID)
			fmt.Fprintf(w, "Name:\t%s\n", out.Name)
			fmt.Fprintf(w, "API key:\t%s\n", out.APIKey)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Unique agent name (1-100 characters)")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
