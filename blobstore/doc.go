// Package blobstore abstracts where training datasets and model snapshots
// live.
//
// A BlobStore opens named, immutable blobs for reading. A WritableStore can
// additionally write whole blobs and list them. Implementations must be safe
// for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system, read through mmap
//   - MemoryStore: an in-process map, for tests and embedded datasets
//   - s3.Store: Amazon S3 (or any S3-compatible endpoint) via aws-sdk-go-v2
//   - minio.Store: MinIO and S3-compatible storage via minio-go
//
// # Usage
//
//	store := blobstore.NewLocalStore("./dataset")
//	rc, err := blobstore.OpenReader(ctx, store, "dna_sequences.csv")
//	if err != nil { ... }
//	defer rc.Close()
package blobstore
