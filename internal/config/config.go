package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultServerURL is the storage backend used when none is configured
	DefaultServerURL = "http://localhost:5000"

	// ServerURLEnv overrides the configured server URL
	ServerURLEnv = "BKT_SERVER_URL"

	dirName  = ".bkt"
	fileName = "config.json"
)

// Config represents the application configuration
type Config struct {
	// Storage backend URL
	ServerURL string `json:"server_url" yaml:"server_url"`

	// Directory downloads are saved into
	DownloadDir string `json:"download_dir,omitempty" yaml:"download_dir,omitempty"`

	// Diagnostic log file, used while the terminal UI owns the screen
	LogFile string `json:"log_file,omitempty" yaml:"log_file,omitempty"`

	// Log level name understood by logrus
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		ServerURL: DefaultServerURL,
		LogLevel:  "info",
	}
}

// isYAML reports whether path should be parsed as YAML
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load loads the configuration from the given file path
func Load(path string) (*Config, error) {
	// If config file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}

	return cfg, nil
}

// Save saves the configuration to the given file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from the environment
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(ServerURLEnv)); v != "" {
		c.ServerURL = v
	}
}

// Validate checks the server URL and log level
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.ServerURL)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log level %q", c.LogLevel)
		}
	}
	return nil
}

// ResolvedDownloadDir returns DownloadDir, or the working directory when unset
func (c *Config) ResolvedDownloadDir() string {
	if c.DownloadDir != "" {
		return c.DownloadDir
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// GetGlobalConfigDir returns the per-user configuration directory
func GetGlobalConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(homeDir, dirName), nil
}

// GetGlobalConfigPath returns the path of the per-user configuration file
func GetGlobalConfigPath() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// DefaultLogFile returns the log file used when none is configured
func DefaultLogFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bkt.log"), nil
}

// LoadGlobalConfig loads the per-user configuration file
func LoadGlobalConfig() (*Config, error) {
	path, err := GetGlobalConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// SaveGlobalConfig saves the per-user configuration file
func SaveGlobalConfig(cfg *Config) error {
	path, err := GetGlobalConfigPath()
	if err != nil {
		return err
	}
	return cfg.Save(path)
}
