package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		cfg := &Config{
			ServerURL:   "https://storage.example.com",
			DownloadDir: "/tmp/downloads",
			LogLevel:    "debug",
		}
		require.NoError(t, cfg.Save(path), name)

		loaded, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, cfg, loaded, name)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download_dir: /data\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, "/data", cfg.DownloadDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(ServerURLEnv, "http://backend:9000")
	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "http://backend:9000", cfg.ServerURL)
}

func TestValidate(t *testing.T) {
	validateTests := []struct {
		cfg       Config
		expectErr bool
	}{
		{Config{ServerURL: "http://localhost:5000"}, false},
		{Config{ServerURL: "https://s.example.com", LogLevel: "warn"}, false},
		{Config{ServerURL: "localhost:5000"}, true},
		{Config{ServerURL: "ftp://host"}, true},
		{Config{ServerURL: ""}, true},
		{Config{ServerURL: "http://localhost", LogLevel: "loud"}, true},
	}

	for _, tt := range validateTests {
		err := tt.cfg.Validate()
		if tt.expectErr {
			assert.Error(t, err, tt.cfg.ServerURL)
		} else {
			assert.NoError(t, err, tt.cfg.ServerURL)
		}
	}
}
