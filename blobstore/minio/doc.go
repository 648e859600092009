// Package minio provides a blobstore.WritableStore backed by the MinIO client.
//
// It works with MinIO and other S3-compatible systems (Ceph, Garage,
// SeaweedFS) without pulling in the AWS configuration chain.
//
// # Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "datasets",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	clf, err := dnaclass.Load(ctx, store, "dna_sequences.csv")
package minio
