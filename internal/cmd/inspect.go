package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/modelout/internal/dataset"
	"github.com/harrison/modelout/internal/display"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/report"
)

// openDataset opens resolved files; tests replace it
var openDataset dataset.Opener = dataset.Open

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Resolve files and print their dimensions or coordinates",
		Long: `Resolve the files valid at --valid-time, open each one in order and print
the model's dimension lengths (--kind dims) or coordinate values
(--kind coords), using the model profile's attribute tables.

Reading stops at the first file that cannot be opened.

Examples:
  modelout inspect --model rrfs --root /data --valid-time 2023010102
  modelout inspect --model wrf --root /runs --valid-time 2023-01-01_06:00:00 --kind coords`,
		Args: cobra.NoArgs,
		RunE: inspectCommand,
	}

	addRequestFlags(cmd)
	cmd.Flags().String("kind", models.AttrDims, "Attribute table to read: dims or coords")
	cmd.Flags().String("report", "", "Write a Markdown (.md) or HTML (.html) report to this file")

	return cmd
}

func inspectCommand(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	kind, _ := cmd.Flags().GetString("kind")
	reportPath, _ := cmd.Flags().GetString("report")
	if kind != models.AttrDims && kind != models.AttrCoords {
		return fmt.Errorf("invalid --kind %q, must be %s or %s", kind, models.AttrDims, models.AttrCoords)
	}

	result, req, err := e.resolveOnce(cmd, e.requestFromFlags(cmd))
	if err != nil {
		return reportFailure(cmd.ErrOrStderr(), err)
	}
	table, err := e.reg.Attributes(req.Model, kind)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	attrs := make(map[string]map[string]any, len(result.ValidFiles))
	progress := display.NewProgressIndicator(out, len(result.ValidFiles))
	progress.Start()

	reader := dataset.NewReader(result, req.Format, openDataset)
	var readErr error
	for reader.Remaining() > 0 {
		path, _ := result.NextUnread()
		ds, err := reader.ReadNext()
		if err != nil {
			progress.Fail(path, err)
			readErr = err
			break
		}
		progress.Step(path)

		values, err := dataset.LookupAttributes(ds, kind, table)
		ds.Close()
		if err != nil {
			readErr = err
			break
		}
		attrs[path] = values
		display.PrintAttributes(out, path, kind, values)
	}
	if readErr == nil {
		progress.Complete()
	}

	if reportPath != "" {
		rep := &report.Report{
			Request:     req,
			Result:      result,
			Err:         readErr,
			Attributes:  attrs,
			AttrKind:    kind,
			GeneratedAt: time.Now(),
		}
		if werr := rep.Write(cmd.Context(), reportPath); werr != nil {
			return fmt.Errorf("failed to write report: %w", werr)
		}
	}

	return readErr
}
