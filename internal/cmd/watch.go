package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/modelout/internal/display"
	"github.com/harrison/modelout/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Wait until the files valid at a time have been written",
		Long: `Resolve the request now and then every --interval until files are found.

Only "no matching file" failures are retried; any other resolution error
stops the watch immediately. The watch gives up after --timeout.

Examples:
  modelout watch --model hrrr --format grib2 --root /data --valid-time 2023010120
  modelout watch --model rrfs --root /data --valid-time 2023010102 --interval 30s --timeout 2h`,
		Args: cobra.NoArgs,
		RunE: watchCommand,
	}

	addRequestFlags(cmd)
	cmd.Flags().String("interval", "", "Time between attempts (e.g., 30s, 5m; default from config)")
	cmd.Flags().String("timeout", "", "Give up after this long (e.g., 2h; default from config)")
	return cmd
}

func watchCommand(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	interval, err := durationFlag(cmd, "interval", e.cfg.Watch.Interval)
	if err != nil {
		return err
	}
	timeout, err := durationFlag(cmd, "timeout", e.cfg.Watch.Timeout)
	if err != nil {
		return err
	}

	opts := watch.Options{Interval: interval, Timeout: timeout, Logger: e.log}
	store, err := e.openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		opts.History = store
	}

	w, err := watch.New(e.reg, e.requestFromFlags(cmd), opts)
	if err != nil {
		return reportFailure(cmd.ErrOrStderr(), err)
	}

	result, err := w.Run(cmd.Context())
	if err != nil {
		return reportFailure(cmd.ErrOrStderr(), err)
	}
	display.PrintResult(cmd.OutOrStdout(), w.Request(), result)
	return nil
}

// durationFlag parses a duration flag, falling back to def when it is unset
func durationFlag(cmd *cobra.Command, name string, def time.Duration) (time.Duration, error) {
	v := changedString(cmd, name)
	if v == nil {
		return def, nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format %q: %w", name, *v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("--%s must be positive, got %s", name, d)
	}
	return d, nil
}
