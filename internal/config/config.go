// Package config loads the YAML settings shared by every cottas command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aleksaelezovic/cottas/pkg/cottas"
	"github.com/aleksaelezovic/cottas/pkg/index"
	"github.com/aleksaelezovic/cottas/pkg/query"
)

// EnvVar names the variable consulted when no --config flag is given.
const EnvVar = "COTTAS_CONFIG"

// Compressions are the Parquet codecs accepted for compression.
var Compressions = []string{"uncompressed", "snappy", "gzip", "zstd", "lz4", "lz4_raw", "brotli"}

// ParquetVersions are the accepted values of parquet_version.
var ParquetVersions = []string{"v1", "v2"}

// ErrInvalidConfig is returned when a loaded file fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds tunables for writing Cottas files.
type Config struct {
	Index            string `yaml:"index"`
	Compression      string `yaml:"compression"`
	CompressionLevel int    `yaml:"compression_level"`
	ParquetVersion   string `yaml:"parquet_version"`
	RowGroupSize     int    `yaml:"row_group_size"`
	StagingDir       string `yaml:"staging_dir"`
	LogLevel         string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	w := query.DefaultWriteOptions()
	return Config{
		Index:            index.Default,
		Compression:      w.Compression,
		CompressionLevel: w.CompressionLevel,
		ParquetVersion:   w.ParquetVersion,
		RowGroupSize:     w.RowGroupSize,
		LogLevel:         "info",
	}
}

// Load reads path, or $COTTAS_CONFIG when path is empty. Keys absent from
// the file keep their defaults. A missing file yields the defaults unless
// it was named explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - operator-supplied config path
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if !index.Validate(c.Index) {
		return fmt.Errorf("%w: index %q is not a permutation of spo or spog", ErrInvalidConfig, c.Index)
	}
	if !slices.Contains(Compressions, strings.ToLower(c.Compression)) {
		return fmt.Errorf("%w: compression %q must be one of %v", ErrInvalidConfig, c.Compression, Compressions)
	}
	if !slices.Contains(ParquetVersions, strings.ToLower(c.ParquetVersion)) {
		return fmt.Errorf("%w: parquet_version %q must be one of %v", ErrInvalidConfig, c.ParquetVersion, ParquetVersions)
	}
	if c.CompressionLevel < 0 {
		return fmt.Errorf("%w: compression_level must not be negative", ErrInvalidConfig)
	}
	if c.RowGroupSize < 0 {
		return fmt.Errorf("%w: row_group_size must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
}

// Options converts the settings into client options logging to log.
func (c Config) Options(log *slog.Logger) cottas.Options {
	return cottas.Options{
		Write: query.WriteOptions{
			Compression:      c.Compression,
			CompressionLevel: c.CompressionLevel,
			ParquetVersion:   c.ParquetVersion,
			RowGroupSize:     c.RowGroupSize,
		},
		StagingDir: c.StagingDir,
		Logger:     log,
	}
}
