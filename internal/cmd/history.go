package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/modelout/internal/display"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded resolutions",
		Long: `List past resolutions from the history database, newest first.

Resolutions are recorded by resolve, inspect, watch and the HTTP API unless
history is disabled in the config or with --no-history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			if limit < 0 {
				return fmt.Errorf("--limit must be >= 0, got %d", limit)
			}

			store, err := e.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("history is disabled")
			}

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			display.PrintHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of resolutions to list (0 = all)")
	cmd.Flags().Bool("json", false, "Print the resolutions as JSON")
	return cmd
}
