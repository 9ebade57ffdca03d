package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/modelout/internal/display"
	"github.com/harrison/modelout/internal/filelock"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/report"
)

// resolveOutput is the JSON form of a resolution
type resolveOutput struct {
	Request models.ResolutionRequest `json:"request"`
	Result  *models.ResolutionResult `json:"result"`
}

// NewResolveCommand creates the resolve command
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "List the model output files valid at a time",
		Long: `Resolve the model output files valid at --valid-time.

Files are matched by their embedded timestamp first. When several files or
none carry the exact time, forecast hours are compared: against the
initialization hour (hrrr.t12z.wrfnatf08) or against the timestamp of the
run directory (2023010100/dynf008).

Examples:
  modelout resolve --model hrrr --format grib2 --root /data --valid-time 2023010120
  modelout resolve --model wrf --root /runs --sub case1 --valid-time 2023-01-01_06:00:00 --json
  modelout resolve --model wrf-geogrid --root /runs --domain d02
  modelout resolve --model rrfs --root /data --valid-time 2023010102 --report run.md`,
		Args: cobra.NoArgs,
		RunE: resolveCommand,
	}

	addRequestFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	cmd.Flags().String("output", "", "Also write the JSON result to this file")
	cmd.Flags().String("report", "", "Write a Markdown (.md) or HTML (.html) report to this file")

	return cmd
}

func resolveCommand(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	jsonFlag, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	reportPath, _ := cmd.Flags().GetString("report")

	result, req, err := e.resolveOnce(cmd, e.requestFromFlags(cmd))

	if reportPath != "" {
		rep := &report.Report{Request: req, Result: result, Err: err, GeneratedAt: time.Now()}
		if werr := rep.Write(cmd.Context(), reportPath); werr != nil {
			return fmt.Errorf("failed to write report: %w", werr)
		}
		e.log.LogInfo("Report written to " + reportPath)
	}
	if err != nil {
		return reportFailure(cmd.ErrOrStderr(), err)
	}

	payload := resolveOutput{Request: req, Result: result}
	if outputPath != "" {
		if err := filelock.WriteJSON(cmd.Context(), outputPath, payload); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
	}

	if jsonFlag {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	display.PrintResult(cmd.OutOrStdout(), req, result)
	return nil
}
