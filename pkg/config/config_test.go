package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.ChronicWeeks)
	assert.Equal(t, 1.3, cfg.ACWRThreshold)
	assert.Equal(t, 32, cfg.EmbeddingDim)
	assert.Equal(t, "tendon", cfg.NATSStream)
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TENDON_DUCKDB_PATH", "/tmp/other.duckdb")
	t.Setenv("TENDON_WORKERS", "8")
	t.Setenv("TENDON_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.duckdb", cfg.DuckDBPath)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)

	// untouched fields keep their defaults
	assert.Equal(t, 4, cfg.ChronicWeeks)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tendon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\nmilvus_addr: milvus:19530\n"), 0o600))
	t.Setenv("TENDON_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "milvus:19530", cfg.MilvusAddr)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tendon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o600))
	t.Setenv("TENDON_CONFIG", path)
	t.Setenv("TENDON_WORKERS", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Workers)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TENDON_DUCKDB_PATH", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("TENDON_CONFIG", "/nonexistent/tendon.yaml")
	_, err := Load()
	assert.Error(t, err)
}
