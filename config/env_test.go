package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesMergesJSONAndDotEnv(t *testing.T) {
	require.NoError(t, Load())
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"db_driver":"postgres","app_port":"9000"}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\nSTORAGE_LOCAL_ROOT=\"assets\"\n# comment\n"), 0o644))

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, "none.env")) })

	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Equal(t, "9100", AppPort())
	assert.Equal(t, "assets", StorageLocalRoot())
}

func TestLoadFromFilesToleratesMissingFiles(t *testing.T) {
	require.NoError(t, Load())
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "missing.json"), filepath.Join(dir, "missing.env")))
	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, "catalog.db", DatabaseDSN())
}

func TestTypedAccessorsFallBack(t *testing.T) {
	Set("CACHE_TTL", "not-a-duration")
	Set("MAX_UPLOAD_BYTES", "-1")
	t.Cleanup(func() {
		Set("CACHE_TTL", "")
		Set("MAX_UPLOAD_BYTES", "")
	})

	assert.Equal(t, 10*time.Minute, CacheTTL())
	assert.Equal(t, int64(defaultMaxUploadBytes), MaxUploadBytes())
}
