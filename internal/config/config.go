// Package config parses the dnaclass command line. Every flag can also be
// set through a DNACLASS_* environment variable; flags win.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

const envPrefix = "DNACLASS_"

// Config is the resolved process configuration.
type Config struct {
	Addr string

	Dataset        string
	SequenceColumn string
	LabelColumn    string

	K             int
	Alpha         float64
	CaseSensitive bool
	MinDocFreq    int

	LogLevel  slog.Level
	LogFormat string

	MaxConcurrent   int64
	QPS             float64
	LoadBytesPerSec int64

	Snapshot    string
	SnapshotOut string

	S3Region   string
	S3Endpoint string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOSecure    bool

	Predict string
}

// LookupFunc returns the value of an environment variable.
type LookupFunc func(key string) (string, bool)

type envReader struct {
	lookup LookupFunc
	errs   []error
}

func envName(flagName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func (e *envReader) string(name, def string) string {
	if v, ok := e.lookup(envName(name)); ok {
		return v
	}
	return def
}

func (e *envReader) int(name string, def int) int {
	v, ok := e.lookup(envName(name))
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", envName(name), err))
		return def
	}
	return n
}

func (e *envReader) int64(name string, def int64) int64 {
	v, ok := e.lookup(envName(name))
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", envName(name), err))
		return def
	}
	return n
}

func (e *envReader) float(name string, def float64) float64 {
	v, ok := e.lookup(envName(name))
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", envName(name), err))
		return def
	}
	return f
}

func (e *envReader) bool(name string, def bool) bool {
	v, ok := e.lookup(envName(name))
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", envName(name), err))
		return def
	}
	return b
}

// Parse reads the configuration from args (without the program name) and
// the environment. Usage and flag errors are written to output.
func Parse(args []string, lookup LookupFunc, output io.Writer) (*Config, error) {
	env := &envReader{lookup: lookup}
	cfg := &Config{}
	var logLevel string

	fs := flag.NewFlagSet("dnaclass", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.Addr, "addr", env.string("addr", ":8080"), "HTTP listen address")
	fs.StringVar(&cfg.Dataset, "dataset", env.string("dataset", "dna_sequences.csv"),
		"training dataset: local path, s3://bucket/key or minio://bucket/key")
	fs.StringVar(&cfg.SequenceColumn, "sequence-column", env.string("sequence-column", "sequence"), "dataset column holding sequences")
	fs.StringVar(&cfg.LabelColumn, "label-column", env.string("label-column", "label"), "dataset column holding labels")

	fs.IntVar(&cfg.K, "k", env.int("k", 3), "k-mer length")
	fs.Float64Var(&cfg.Alpha, "alpha", env.float("alpha", 1.0), "additive smoothing")
	fs.BoolVar(&cfg.CaseSensitive, "case-sensitive", env.bool("case-sensitive", false), "keep letter case when extracting k-mers")
	fs.IntVar(&cfg.MinDocFreq, "min-df", env.int("min-df", 1), "drop k-mers seen in fewer training sequences")

	fs.StringVar(&logLevel, "log-level", env.string("log-level", "info"), "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", env.string("log-format", "text"), "log format: text or json")

	fs.Int64Var(&cfg.MaxConcurrent, "max-concurrent", env.int64("max-concurrent", 64), "maximum concurrent predictions, 0 = unlimited")
	fs.Float64Var(&cfg.QPS, "qps", env.float("qps", 0), "sustained predictions per second, 0 = unlimited")
	fs.Int64Var(&cfg.LoadBytesPerSec, "load-bytes-per-sec", env.int64("load-bytes-per-sec", 0),
		"dataset read throughput limit, 0 = unlimited")

	fs.StringVar(&cfg.Snapshot, "snapshot", env.string("snapshot", ""), "open this model snapshot instead of training")
	fs.StringVar(&cfg.SnapshotOut, "snapshot-out", env.string("snapshot-out", ""), "write the trained model snapshot here")

	fs.StringVar(&cfg.S3Region, "s3-region", env.string("s3-region", ""), "AWS region for s3:// locations")
	fs.StringVar(&cfg.S3Endpoint, "s3-endpoint", env.string("s3-endpoint", ""), "custom S3 endpoint, enables path-style addressing")

	fs.StringVar(&cfg.MinIOEndpoint, "minio-endpoint", env.string("minio-endpoint", "localhost:9000"), "MinIO endpoint for minio:// locations")
	fs.StringVar(&cfg.MinIOAccessKey, "minio-access-key", env.string("minio-access-key", ""), "MinIO access key")
	fs.StringVar(&cfg.MinIOSecretKey, "minio-secret-key", env.string("minio-secret-key", ""), "MinIO secret key")
	fs.BoolVar(&cfg.MinIOSecure, "minio-secure", env.bool("minio-secure", false), "use TLS for MinIO")

	fs.StringVar(&cfg.Predict, "predict", env.string("predict", ""), "classify this sequence, print the result and exit")

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q", logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and combinations.
func (c *Config) Validate() error {
	var errs []error
	if c.Dataset == "" && c.Snapshot == "" {
		errs = append(errs, errors.New("one of -dataset or -snapshot is required"))
	}
	if c.K < 1 {
		errs = append(errs, fmt.Errorf("-k must be at least 1, got %d", c.K))
	}
	if !(c.Alpha > 0) {
		errs = append(errs, fmt.Errorf("-alpha must be positive, got %g", c.Alpha))
	}
	if c.MinDocFreq < 1 {
		errs = append(errs, fmt.Errorf("-min-df must be at least 1, got %d", c.MinDocFreq))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("-log-format must be text or json, got %q", c.LogFormat))
	}
	if c.MaxConcurrent < 0 || c.QPS < 0 || c.LoadBytesPerSec < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	return errors.Join(errs...)
}
