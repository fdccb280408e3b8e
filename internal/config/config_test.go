package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cottas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "spo", cfg.Index)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.Equal(t, 22, cfg.CompressionLevel)
	assert.Equal(t, "v2", cfg.ParquetVersion)
	assert.Zero(t, cfg.RowGroupSize)
	assert.Empty(t, cfg.StagingDir)
	require.NoError(t, cfg.Validate())
}

func TestLoadNoPath(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFile(t *testing.T) {
	path := writeConfig(t, "index: POSG\nrow_group_size: 4096\nlog_level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "POSG", cfg.Index)
	assert.Equal(t, 4096, cfg.RowGroupSize)
	assert.Equal(t, "zstd", cfg.Compression, "unset keys keep defaults")

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadCaseInsensitiveCodec(t *testing.T) {
	cfg, err := Load(writeConfig(t, "compression: SNAPPY\nparquet_version: V1\n"))
	require.NoError(t, err)
	assert.Equal(t, "SNAPPY", cfg.Compression)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvVar, writeConfig(t, "compression: snappy\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "snappy", cfg.Compression)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	t.Setenv(EnvVar, missing)
	cfg, err := Load("")
	require.NoError(t, err, "a missing file from the environment means defaults")
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing)
	require.Error(t, err, "an explicitly named file must exist")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad index", "index: spx\n"},
		{"negative level", "compression_level: -1\n"},
		{"negative row groups", "row_group_size: -5\n"},
		{"unknown log level", "log_level: loud\n"},
		{"unknown compression", "compression: zstd, ROW_GROUP_SIZE 1\n"},
		{"empty compression", "compression: \"\"\n"},
		{"unknown parquet version", "parquet_version: v3\n"},
		{"not yaml", "index: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.StagingDir = "/tmp/stage"
	cfg.RowGroupSize = 10

	opts := cfg.Options(nil)
	assert.Equal(t, "zstd", opts.Write.Compression)
	assert.Equal(t, 22, opts.Write.CompressionLevel)
	assert.Equal(t, 10, opts.Write.RowGroupSize)
	assert.Empty(t, opts.Write.Index)
	assert.Equal(t, "/tmp/stage", opts.StagingDir)
}
