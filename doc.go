// Package dnaclass classifies DNA sequences by their k-mer composition.
//
// A Classifier pairs a k-mer Vocabulary with a multinomial Naive Bayes
// Model. Both are fitted once from a labeled dataset and are immutable
// afterwards, so a single Classifier can serve any number of concurrent
// predictions.
//
// # Quick Start
//
// Train from a CSV file on local disk:
//
//	ctx := context.Background()
//	clf, _ := dnaclass.Load(ctx, blobstore.NewLocalStore("./data"), "dna_sequences.csv")
//	p, _ := clf.Predict(ctx, "ATGCGA")
//	fmt.Println(p.Label, p.Probabilities)
//
// Or from S3:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("datasets/"))
//	clf, _ := dnaclass.Load(ctx, store, "dna_sequences.csv.gz")
//
// # Snapshots
//
// A fitted Classifier can be exported and re-opened without the training
// data:
//
//	_ = clf.Save(ctx, store, "model.snapshot")
//	clf, _ = dnaclass.Open(ctx, store, "model.snapshot")
//
// Snapshots record the codec that wrote them and are decoded with the same
// codec regardless of WithCodec.
package dnaclass
