package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudosd/internal/structures"
)

func loggerConfig(dir string) *structures.Config {
	return &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "debug",
			Mode:  0644,
			Dir:   dir,
		},
	}
}

func TestGetLogTypeByRequestType_POST(t *testing.T) {
	assert.Equal(t, TypePost, GetLogTypeByRequestType("POST"))
}

func TestGetLogTypeByRequestType_GET(t *testing.T) {
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("GET"))
}

func TestGetLogTypeByRequestType_Other(t *testing.T) {
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("PATCH"))
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("DELETE"))
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir))
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof(TypeApp, "daemon started on %s:%d", "0.0.0.0", 18090)
	logger.Debugf(TypeGet, "get message")
	logger.Warnf(TypePost, "post message")

	content, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "daemon started")
}

func TestLogProvider_RoutesLevelsPerType(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir))
	require.NoError(t, err)
	defer logger.Close()

	logger.Errorf(TypeApp, "store flush failed: %s", "disk full")
	logger.Warnf(TypeGet, "slow read %dms", 250)
	logger.Infof(TypePost, "activity %s accepted", "act_1")
	logger.Debugf(TypePost, "payload %d bytes", 512)

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "store flush failed: disk full")
	assert.Contains(t, string(app), `"level":"error"`)

	get, err := os.ReadFile(filepath.Join(dir, "access_get.log"))
	require.NoError(t, err)
	assert.Contains(t, string(get), "slow read 250ms")

	post, err := os.ReadFile(filepath.Join(dir, "access_post.log"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "activity act_1 accepted")
	assert.Contains(t, string(post), "payload 512 bytes")
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	_, err := NewLogProvider(loggerConfig("/nonexistent/directory/path"))
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := loggerConfig(t.TempDir())
	conf.Logger.Level = "chatty"

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}
