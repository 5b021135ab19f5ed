// Package cli implements the trialfacet command line interface.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/trialfacet"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string

	// Config is populated by the root command before any subcommand runs.
	Config *Config

	logLevel    string
	logFormat   string
	codec       string
	data        string
	parallelism int
	chunkSize   int

	minioEndpoint  string
	minioAccessKey string
	minioSecretKey string
	minioSecure    bool
	s3Region       string
	s3Endpoint     string
}

// NewRootCommand creates the root command for the trialfacet CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trialfacet",
		Short: "Faceted filtering for clinical trial data",
		Long: `Compile client filter selections into predicates and compute the
filter options that remain available over a trial dataset.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	f.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	f.StringVar(&opts.logFormat, "log-format", "", "log format (text|json)")
	f.StringVar(&opts.codec, "codec", "", "output codec (json|go-json|msgpack)")
	f.StringVar(&opts.data, "data", "", "dataset location (path, s3://bucket/key, minio://bucket/key)")
	f.IntVar(&opts.parallelism, "parallelism", 0, "widening fold workers (0 = GOMAXPROCS)")
	f.IntVar(&opts.chunkSize, "chunk-size", 0, "entities per fold chunk (0 = default)")
	f.StringVar(&opts.minioEndpoint, "minio-endpoint", "", "MinIO endpoint (host:port)")
	f.StringVar(&opts.minioAccessKey, "minio-access-key", "", "MinIO access key")
	f.StringVar(&opts.minioSecretKey, "minio-secret-key", "", "MinIO secret key")
	f.BoolVar(&opts.minioSecure, "minio-secure", false, "use HTTPS for MinIO")
	f.StringVar(&opts.s3Region, "s3-region", "", "AWS region for s3:// locations")
	f.StringVar(&opts.s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint for s3:// locations")

	cmd.AddCommand(NewAvailableCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewEntitiesCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// load reads the config file and lets explicitly set flags override it.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg := DefaultConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = LoadFromFile(o.ConfigPath); err != nil {
			return err
		}
	}

	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if f.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if f.Changed("codec") {
		cfg.Codec = o.codec
	}
	if f.Changed("data") {
		cfg.Data = o.data
	}
	if f.Changed("parallelism") {
		cfg.Fold.Parallelism = o.parallelism
	}
	if f.Changed("chunk-size") {
		cfg.Fold.ChunkSize = o.chunkSize
	}
	if f.Changed("minio-endpoint") {
		cfg.MinIO.Endpoint = o.minioEndpoint
	}
	if f.Changed("minio-access-key") {
		cfg.MinIO.AccessKey = o.minioAccessKey
	}
	if f.Changed("minio-secret-key") {
		cfg.MinIO.SecretKey = o.minioSecretKey
	}
	if f.Changed("minio-secure") {
		cfg.MinIO.Secure = o.minioSecure
	}
	if f.Changed("s3-region") {
		cfg.S3.Region = o.s3Region
	}
	if f.Changed("s3-endpoint") {
		cfg.S3.Endpoint = o.s3Endpoint
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	o.Config = cfg
	return nil
}

// logger builds the service logger writing to the command's stderr.
func (o *RootOptions) logger(cmd *cobra.Command) *trialfacet.Logger {
	level, _ := o.Config.level()
	hopts := &slog.HandlerOptions{Level: level}
	if o.Config.Log.Format == "json" {
		return trialfacet.NewLogger(slog.NewJSONHandler(cmd.ErrOrStderr(), hopts))
	}
	return trialfacet.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), hopts))
}

// serviceOptions translates the config into service options.
func (o *RootOptions) serviceOptions(cmd *cobra.Command) []trialfacet.Option {
	cfg := o.Config
	opts := []trialfacet.Option{
		trialfacet.WithLogger(o.logger(cmd)),
		trialfacet.WithParallelism(cfg.Fold.Parallelism),
		trialfacet.WithChunkSize(cfg.Fold.ChunkSize),
	}
	if a := cfg.Admission; a.MaxConcurrentFolds > 0 {
		opts = append(opts, trialfacet.WithMaxConcurrentFolds(a.MaxConcurrentFolds))
	}
	if a := cfg.Admission; a.MaxInFlightEntities > 0 {
		opts = append(opts, trialfacet.WithMaxInFlightEntities(a.MaxInFlightEntities))
	}
	if a := cfg.Admission; a.RequestsPerSecond > 0 {
		opts = append(opts, trialfacet.WithRateLimit(a.RequestsPerSecond, a.Burst))
	}
	return opts
}
