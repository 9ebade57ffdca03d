package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/modelout/internal/config"
	"github.com/harrison/modelout/internal/history"
	"github.com/harrison/modelout/internal/logger"
	"github.com/harrison/modelout/internal/registry"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for modelout
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modelout",
		Short: "Locate weather model output files valid at a given time",
		Long: `modelout finds the output files of a numerical weather model (WRF, RRFS,
HRRR) that are valid at a requested time.

It builds a search path from the model profile, scans the directory tree and
matches files by their embedded timestamp or by initialization and forecast
hours. Resolved files can be read in order, served over HTTP, or watched for
until they appear.

Configuration is loaded from .modelout/config.yaml if present, then from .env
and MODELOUT_* environment variables. CLI flags override all of them.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .modelout/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().String("log-dir", "", "Directory for run logs (empty string disables file logging)")
	cmd.PersistentFlags().String("profiles", "", "HCL file or directory with model profile overrides")
	cmd.PersistentFlags().String("history-db", "", "Path to the resolution history database")
	cmd.PersistentFlags().Bool("no-history", false, "Do not record resolutions")

	cmd.AddCommand(NewResolveCommand())
	cmd.AddCommand(NewInspectCommand())
	cmd.AddCommand(NewProfilesCommand())
	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// env is what every subcommand needs once configuration is loaded
type env struct {
	cfg     *config.Config
	reg     *registry.Registry
	log     logger.Logger
	closers []func() error
}

// setup loads configuration in precedence order (file, .env, environment,
// flags) and builds the registry and loggers from it.
func setup(cmd *cobra.Command) (*env, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg.ApplyEnv()

	cfg.MergeWithFlags(
		changedString(cmd, "log-level"),
		changedString(cmd, "log-dir"),
		changedString(cmd, "profiles"),
		changedString(cmd, "history-db"),
	)
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	reg, err := registry.Load(cfg.Profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to load model profiles: %w", err)
	}

	e := &env{cfg: cfg, reg: reg}
	console := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if cfg.LogDir == "" {
		e.log = console
		return e, nil
	}

	fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	e.closers = append(e.closers, fileLog.Close)
	e.log = logger.NewTee(console, fileLog)
	e.log.LogDebug("Run log: " + fileLog.RunLogPath())
	return e, nil
}

// openHistory opens the history store, or returns nil when history is disabled
func (e *env) openHistory() (*history.Store, error) {
	if !e.cfg.History.Enabled {
		return nil, nil
	}
	path, err := e.cfg.GetHistoryDBPath()
	if err != nil {
		return nil, err
	}
	store, err := history.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	e.closers = append(e.closers, store.Close)
	return store, nil
}

// Close releases loggers and stores in reverse order of creation
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// changedString returns the flag value only when the user set it
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
