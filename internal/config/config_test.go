package config

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/hupe1980/dnaclass/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(kv map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := kv[key]
		return v, ok
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil, env(nil), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "dna_sequences.csv", cfg.Dataset)
	assert.Equal(t, "sequence", cfg.SequenceColumn)
	assert.Equal(t, "label", cfg.LabelColumn)
	assert.Equal(t, 3, cfg.K)
	assert.Equal(t, 1.0, cfg.Alpha)
	assert.False(t, cfg.CaseSensitive)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, int64(64), cfg.MaxConcurrent)
	assert.Empty(t, cfg.Predict)
}

func TestParse_Flags(t *testing.T) {
	cfg, err := Parse([]string{
		"-addr", ":9090",
		"-dataset", "s3://bucket/dna.csv.gz",
		"-k", "4",
		"-alpha", "0.5",
		"-case-sensitive",
		"-log-level", "debug",
		"-log-format", "json",
		"-qps", "100",
		"-predict", "ATGCGA",
	}, env(nil), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "s3://bucket/dna.csv.gz", cfg.Dataset)
	assert.Equal(t, 4, cfg.K)
	assert.Equal(t, 0.5, cfg.Alpha)
	assert.True(t, cfg.CaseSensitive)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 100.0, cfg.QPS)
	assert.Equal(t, "ATGCGA", cfg.Predict)
}

func TestParse_Env(t *testing.T) {
	cfg, err := Parse([]string{"-k", "5"}, env(map[string]string{
		"DNACLASS_K":                "2",
		"DNACLASS_DATASET":          "/data/regions.csv",
		"DNACLASS_MINIO_SECURE":     "true",
		"DNACLASS_MINIO_ACCESS_KEY": "admin",
		"DNACLASS_LOG_LEVEL":        "warn",
	}), io.Discard)
	require.NoError(t, err)

	// Flags win over the environment.
	assert.Equal(t, 5, cfg.K)
	assert.Equal(t, "/data/regions.csv", cfg.Dataset)
	assert.True(t, cfg.MinIOSecure)
	assert.Equal(t, "admin", cfg.MinIOAccessKey)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"BadEnvInt", nil, map[string]string{"DNACLASS_K": "three"}},
		{"BadEnvBool", nil, map[string]string{"DNACLASS_CASE_SENSITIVE": "maybe"}},
		{"BadFlag", []string{"-k", "x"}, nil},
		{"UnknownFlag", []string{"-nope"}, nil},
		{"ZeroK", []string{"-k", "0"}, nil},
		{"ZeroAlpha", []string{"-alpha", "0"}, nil},
		{"LogLevel", []string{"-log-level", "loud"}, nil},
		{"LogFormat", []string{"-log-format", "xml"}, nil},
		{"NoSource", []string{"-dataset", ""}, nil},
		{"Negative", []string{"-qps", "-1"}, nil},
		{"Positional", []string{"extra"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.args, env(tc.env), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("s3://genomes/datasets/dna.csv")
	require.NoError(t, err)
	assert.Equal(t, Location{Scheme: "s3", Bucket: "genomes", Name: "datasets/dna.csv"}, loc)

	loc, err = ParseLocation("minio://genomes/dna.csv.zst")
	require.NoError(t, err)
	assert.Equal(t, Location{Scheme: "minio", Bucket: "genomes", Name: "dna.csv.zst"}, loc)

	loc, err = ParseLocation("/data/dna.csv")
	require.NoError(t, err)
	assert.Equal(t, "file", loc.Scheme)
	assert.Equal(t, "dna.csv", loc.Name)
	assert.Equal(t, filepath.FromSlash("/data"), loc.Dir)

	loc, err = ParseLocation("file:///data/dna.csv")
	require.NoError(t, err)
	assert.Equal(t, "dna.csv", loc.Name)

	for _, bad := range []string{"", "s3://bucket", "s3:///key", "gs://bucket/key"} {
		_, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpenStore_Local(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	cfg := &Config{}

	store, name, err := cfg.OpenStore(ctx, filepath.Join(dir, "model.snapshot"))
	require.NoError(t, err)
	assert.Equal(t, "model.snapshot", name)

	require.NoError(t, store.Put(ctx, name, []byte("data")))
	got, err := blobstore.ReadAll(ctx, blobstore.NewLocalStore(dir), "model.snapshot")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
}
