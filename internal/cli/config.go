package cli

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/trialfacet/blobstore/minio"
	"github.com/hupe1980/trialfacet/codec"
)

// Config represents the complete CLI configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Fold      FoldConfig      `yaml:"fold"`
	Admission AdmissionConfig `yaml:"admission"`

	// Codec names the output codec: "json", "go-json" or "msgpack".
	Codec string `yaml:"codec"`

	// Data is the dataset location: a local path, s3://bucket/key or minio://bucket/key.
	Data string `yaml:"data"`

	S3    S3Config     `yaml:"s3"`
	MinIO minio.Config `yaml:"minio"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// FoldConfig tunes the widening fold.
type FoldConfig struct {
	// Parallelism caps the fold workers (0 = GOMAXPROCS).
	Parallelism int `yaml:"parallelism"`
	// ChunkSize is the number of entities per worker chunk (0 = default).
	ChunkSize int `yaml:"chunk_size"`
}

// AdmissionConfig limits concurrent work. Zero disables a limit.
type AdmissionConfig struct {
	MaxConcurrentFolds  int     `yaml:"max_concurrent_folds"`
	MaxInFlightEntities int64   `yaml:"max_in_flight_entities"`
	RequestsPerSecond   float64 `yaml:"requests_per_second"`
	Burst               int     `yaml:"burst"`
}

// S3Config configures the AWS client for s3:// locations.
type S3Config struct {
	Region string `yaml:"region"`
	// Endpoint points at an S3-compatible service such as LocalStack.
	Endpoint string `yaml:"endpoint"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Codec: "json",
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if _, ok := codec.ByName(c.Codec); !ok {
		return fmt.Errorf("unknown codec %q", c.Codec)
	}
	if c.Fold.Parallelism < 0 || c.Fold.ChunkSize < 0 {
		return fmt.Errorf("fold.parallelism and fold.chunk_size must not be negative")
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return l, nil
}
