// Package s3 provides an Amazon S3 implementation of blobstore.WritableStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	clf, err := dnaclass.Load(ctx, store, "dna_sequences.csv.zst")
//
// Credentials and region come from the default AWS configuration chain unless
// overridden. WithEndpoint and WithPathStyle target S3-compatible services.
//
// # Features
//
//   - Range GETs for blob reads
//   - Uploads through the s3 manager (multipart for large snapshots)
//   - Paginated listing relative to the configured prefix
package s3
