package cmd

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/modelout/internal/display"
	"github.com/harrison/modelout/internal/history"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/resolver"
)

// addRequestFlags registers the flags that describe a resolution request
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "Model name (wrf, wrf-geogrid, rrfs, hrrr or a profile override)")
	cmd.Flags().String("format", "", "Data format: netcdf or grib2 (default from config)")
	cmd.Flags().String("root", "", "Root directory of the model output")
	cmd.Flags().String("sub", "", "Subdirectory hint below the root")
	cmd.Flags().String("valid-time", "", "Valid time in the model's time format")
	cmd.Flags().String("domain", "", "WRF domain tag (default from config)")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("root")
}

// requestFromFlags builds a request, filling format and domain from config
func (e *env) requestFromFlags(cmd *cobra.Command) models.ResolutionRequest {
	req := models.ResolutionRequest{}
	req.Model, _ = cmd.Flags().GetString("model")
	req.Format, _ = cmd.Flags().GetString("format")
	req.RootDir, _ = cmd.Flags().GetString("root")
	req.SubDirHint, _ = cmd.Flags().GetString("sub")
	req.ValidTime, _ = cmd.Flags().GetString("valid-time")
	req.Domain, _ = cmd.Flags().GetString("domain")

	if req.Format == "" {
		req.Format = e.cfg.Defaults.Format
	}
	if req.Domain == "" {
		req.Domain = e.cfg.Defaults.Domain
	}
	return req
}

// resolveOnce runs one resolution and records it in the history store.
// The returned request is normalized when the request passed validation.
func (e *env) resolveOnce(cmd *cobra.Command, req models.ResolutionRequest) (*models.ResolutionResult, models.ResolutionRequest, error) {
	store, err := e.openHistory()
	if err != nil {
		return nil, req, err
	}

	start := time.Now()
	var result *models.ResolutionResult
	r, err := resolver.New(e.reg, req, resolver.WithLogger(e.log))
	if err == nil {
		req = r.Request()
		result, err = r.Resolve()
	}
	e.log.LogResolution(req, result, err)

	if store != nil {
		rec := history.NewResolution(history.SourceCLI, req, result, err, time.Since(start))
		if herr := store.Record(cmd.Context(), rec); herr != nil {
			e.log.LogWarn("Failed to record resolution: " + herr.Error())
		}
	}
	return result, req, err
}

// reportFailure prints a warning box for resolution errors and returns err
func reportFailure(out io.Writer, err error) error {
	if w, ok := display.WarningFor(err); ok {
		w.Display(out)
	}
	return err
}
