package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bkt/internal/config"

	"github.com/spf13/cobra"
)

// configKeys lists the keys accepted by 'config get' and 'config set'
var configKeys = []string{"server-url", "download-dir", "log-file", "log-level"}

// configField returns a pointer to the field behind key
func configField(cfg *config.Config, key string) (*string, error) {
	switch key {
	case "server-url":
		return &cfg.ServerURL, nil
	case "download-dir":
		return &cfg.DownloadDir, nil
	case "log-file":
		return &cfg.LogFile, nil
	case "log-level":
		return &cfg.LogLevel, nil
	}
	return nil, fmt.Errorf("unknown configuration key: %s (valid keys: %s)", key, strings.Join(configKeys, ", "))
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage bkt configuration",
		Long:  "View and update bkt configuration settings",
		// Config commands must work while the stored configuration is invalid
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfigFlag(); err != nil {
				return err
			}
			return a.setupLogging(a.cfg.LogFile)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get configuration value",
		Long:  "Display specific configuration value or all configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFile()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			out := cmd.OutOrStdout()

			// If no argument is provided, show all config
			if len(args) == 0 {
				fmt.Fprintln(out, "Current configuration:")
				fmt.Fprintf(out, "Server URL: %s\n", cfg.ServerURL)
				if cfg.DownloadDir != "" {
					fmt.Fprintf(out, "Download Directory: %s\n", cfg.DownloadDir)
				}
				if cfg.LogFile != "" {
					fmt.Fprintf(out, "Log File: %s\n", cfg.LogFile)
				}
				if cfg.LogLevel != "" {
					fmt.Fprintf(out, "Log Level: %s\n", cfg.LogLevel)
				}
				return nil
			}

			field, err := configField(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, *field)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set configuration value",
		Long:  "Update a configuration setting. Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFile()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			field, err := configField(cfg, args[0])
			if err != nil {
				return err
			}
			old := *field
			*field = args[1]

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s updated: %q -> %q\n", args[0], old, args[1])
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration",
		Long:  "Create a new configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFile()
			if err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}

			out := cmd.OutOrStdout()

			// Check if config file exists
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintln(out, "Configuration file already exists.")
				fmt.Fprintln(out, "Use 'bkt config set' to modify existing configuration.")
				return nil
			}

			cfg := config.Default()
			if a.serverURL != "" {
				cfg.ServerURL = a.serverURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Fprintln(out, "Configuration initialized successfully.")
			fmt.Fprintf(out, "Configuration file created at: %s\n", path)
			return nil
		},
	}

	pathsCmd := &cobra.Command{
		Use:   "paths",
		Short: "Show configuration file paths",
		Long:  "Display paths to the configuration and log files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFile()
			if err != nil {
				return err
			}
			logFile := a.logFile
			if logFile == "" {
				logFile = a.cfg.LogFile
			}
			if logFile == "" {
				if logFile, err = config.DefaultLogFile(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Config paths:")
			fmt.Fprintf(out, "- Config directory: %s\n", filepath.Dir(path))
			fmt.Fprintf(out, "- Config file: %s\n", path)
			fmt.Fprintf(out, "- Log file: %s\n", logFile)

			// Check existence
			fmt.Fprintln(out, "\nExistence status:")
			for _, p := range []struct{ name, path string }{
				{"Config file", path},
				{"Log file", logFile},
			} {
				if _, err := os.Stat(p.path); os.IsNotExist(err) {
					fmt.Fprintf(out, "- %s: Does not exist\n", p.name)
				} else {
					fmt.Fprintf(out, "- %s: Exists\n", p.name)
				}
			}
			return nil
		},
	}

	configCmd.AddCommand(getCmd, setCmd, initCmd, pathsCmd)
	return configCmd
}
