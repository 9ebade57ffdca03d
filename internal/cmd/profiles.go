package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/harrison/modelout/internal/display"
)

// NewProfilesCommand creates the profiles command
func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the registered model profiles",
		Long: `List every model the registry knows, built-in or loaded from --profiles,
with its time format, search path pattern and filename grammar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(e.reg.Profiles())
			}
			display.PrintProfiles(cmd.OutOrStdout(), e.reg)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the profiles as JSON")
	return cmd
}
