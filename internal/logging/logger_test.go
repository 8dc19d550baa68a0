package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer Log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "logs", "bkt.log")
	closer, err := Setup("debug", path)
	require.NoError(t, err)

	assert.Equal(t, log.DebugLevel, Log.GetLevel())
	Log.WithField("bucket", "photos").Error("Failed to load files")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Failed to load files")
	assert.Contains(t, string(data), "bucket=photos")
}

func TestSetupInvalidLevel(t *testing.T) {
	_, err := Setup("loud", "")
	assert.Error(t, err)
}
