package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"bkt/internal/api"
	"bkt/internal/config"
	"bkt/internal/logging"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// app carries the state shared by every command of one invocation
type app struct {
	cfg    *config.Config
	client *api.Client

	configPath string
	serverURL  string
	logLevel   string
	logFile    string

	logCloser io.Closer
}

// Execute runs the root command
func Execute(cfg *config.Config) error {
	root, a := newRootCmd(cfg)
	defer a.close()

	err := root.Execute()
	if err != nil {
		color.New(color.FgRed).Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

// newRootCmd builds the command tree around cfg. Callers close the returned app
// once the command has run.
func newRootCmd(cfg *config.Config) (*cobra.Command, *app) {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "bkt",
		Short: "bkt - A terminal file manager for bucket storage",
		Long: `bkt browses the buckets of a storage server and manages their files.
Run 'bkt browse' for the interactive file manager, or use the buckets and files
commands from scripts.`,
		Version:           "0.1.0",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.prepare,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file, JSON or YAML (default ~/.bkt/config.json)")
	flags.StringVar(&a.serverURL, "server-url", "", "Storage server URL (overrides config and "+config.ServerURLEnv+")")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(
		newBrowseCmd(a),
		newBucketsCmd(a),
		newFilesCmd(a),
		newConfigCmd(a),
	)

	return rootCmd, a
}

// configFile returns the config file this invocation reads and writes
func (a *app) configFile() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.GetGlobalConfigPath()
}

// loadConfigFlag replaces the startup config with the file named by --config
func (a *app) loadConfigFlag() error {
	if a.configPath == "" {
		return nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg
	return nil
}

// setupLogging applies the configured level and log file
func (a *app) setupLogging(logFile string) error {
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	level := a.cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	if a.logFile != "" {
		logFile = a.logFile
	}

	closer, err := logging.Setup(level, logFile)
	if err != nil {
		return err
	}
	a.logCloser = closer
	return nil
}

// prepare resolves configuration, logging and the API client before a command runs
func (a *app) prepare(cmd *cobra.Command, args []string) error {
	if err := a.loadConfigFlag(); err != nil {
		return err
	}
	a.cfg.ApplyEnv()
	if a.serverURL != "" {
		a.cfg.ServerURL = a.serverURL
	}

	logFile := a.cfg.LogFile
	if cmd.Name() == "browse" && logFile == "" {
		// The TUI owns the terminal, so logs must go elsewhere
		defaultLog, err := config.DefaultLogFile()
		if err != nil {
			return err
		}
		logFile = defaultLog
	}
	if err := a.setupLogging(logFile); err != nil {
		return err
	}

	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.client = api.NewClient(a.cfg.ServerURL, api.WithLogger(logging.Log))
	logging.Log.WithField("server_url", a.client.BaseURL).Debug("using storage server")
	return nil
}

// close releases the log file opened for this invocation
func (a *app) close() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	logging.Log.SetOutput(os.Stderr)
	return err
}

// commandContext returns the command's context, or a background one
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
