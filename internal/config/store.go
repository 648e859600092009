package config

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/hupe1980/dnaclass/blobstore"
	"github.com/hupe1980/dnaclass/blobstore/minio"
	"github.com/hupe1980/dnaclass/blobstore/s3"
)

// Location is a parsed dataset or snapshot location.
type Location struct {
	// Scheme is "file", "s3" or "minio".
	Scheme string
	// Bucket is empty for local files.
	Bucket string
	// Dir is the local directory, empty for object stores.
	Dir string
	// Name is the blob name within the bucket or directory.
	Name string
}

// ParseLocation splits s into a store and a blob name. Plain paths are local
// files.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, fmt.Errorf("empty location")
	}

	scheme, _, hasScheme := strings.Cut(s, "://")
	if !hasScheme {
		abs, err := filepath.Abs(s)
		if err != nil {
			return Location{}, err
		}
		return Location{Scheme: "file", Dir: filepath.Dir(abs), Name: filepath.Base(abs)}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", s, err)
	}
	switch scheme {
	case "s3", "minio":
		name := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || name == "" {
			return Location{}, fmt.Errorf("location %q must be %s://bucket/key", s, scheme)
		}
		return Location{Scheme: scheme, Bucket: u.Host, Name: name}, nil
	case "file":
		return ParseLocation(u.Path)
	default:
		return Location{}, fmt.Errorf("unsupported location scheme %q", scheme)
	}
}

// OpenStore parses location and connects to its store.
func (c *Config) OpenStore(ctx context.Context, location string) (blobstore.WritableStore, string, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, "", err
	}

	switch loc.Scheme {
	case "s3":
		var opts []s3.Option
		if c.S3Region != "" {
			opts = append(opts, s3.WithRegion(c.S3Region))
		}
		if c.S3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(c.S3Endpoint), s3.WithPathStyle())
		}
		store, err := s3.New(ctx, loc.Bucket, opts...)
		if err != nil {
			return nil, "", fmt.Errorf("connect to s3 bucket %q: %w", loc.Bucket, err)
		}
		return store, loc.Name, nil
	case "minio":
		store, err := minio.New(minio.Config{
			Endpoint:  c.MinIOEndpoint,
			AccessKey: c.MinIOAccessKey,
			SecretKey: c.MinIOSecretKey,
			Secure:    c.MinIOSecure,
			Bucket:    loc.Bucket,
		})
		if err != nil {
			return nil, "", fmt.Errorf("connect to minio bucket %q: %w", loc.Bucket, err)
		}
		return store, loc.Name, nil
	default:
		return blobstore.NewLocalStore(loc.Dir), loc.Name, nil
	}
}
