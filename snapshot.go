package dnaclass

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/dnaclass/blobstore"
	"github.com/hupe1980/dnaclass/codec"
	"github.com/hupe1980/dnaclass/kmer"
	"github.com/hupe1980/dnaclass/naivebayes"
)

const (
	snapshotMagic   = "dnaclass-snapshot"
	snapshotVersion = 1
)

// Snapshot is the serializable state of a Classifier.
type Snapshot struct {
	Version       int                 `json:"version"`
	K             int                 `json:"k"`
	CaseSensitive bool                `json:"case_sensitive"`
	Terms         []string            `json:"terms"`
	Model         naivebayes.Snapshot `json:"model"`
	Stats         Stats               `json:"stats"`
}

// Snapshot returns the state needed to rebuild c without the training data.
func (c *Classifier) Snapshot() Snapshot {
	return Snapshot{
		Version:       snapshotVersion,
		K:             c.vocab.K(),
		CaseSensitive: c.vocab.CaseSensitive(),
		Terms:         c.vocab.Terms(),
		Model:         c.model.Snapshot(),
		Stats:         c.Stats(),
	}
}

// FromSnapshot rebuilds a Classifier. Options that shape training are
// ignored; logging, metrics and codec options apply.
func FromSnapshot(s Snapshot, optFns ...Option) (*Classifier, error) {
	o := applyOptions(optFns)

	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, s.Version)
	}

	kopts := []kmer.Option{kmer.WithK(s.K)}
	if s.CaseSensitive {
		kopts = append(kopts, kmer.WithCaseSensitive())
	}
	vocab, err := kmer.NewVocabulary(s.Terms, kopts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	model, err := naivebayes.FromSnapshot(s.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if model.Dim() != vocab.Len() {
		return nil, fmt.Errorf("%w: model has %d features, vocabulary %d",
			ErrInvalidSnapshot, model.Dim(), vocab.Len())
	}

	return &Classifier{
		vocab:   vocab,
		model:   model,
		stats:   s.Stats,
		codec:   o.codec,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}, nil
}

// MarshalSnapshot encodes c with its configured codec. The output starts
// with a header line naming the codec, so it can be decoded without knowing
// which codec wrote it.
func (c *Classifier) MarshalSnapshot() ([]byte, error) {
	payload, err := c.codec.Marshal(c.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot with %s: %w", c.codec.Name(), err)
	}

	var buf bytes.Buffer
	buf.Grow(len(payload) + 64)
	fmt.Fprintf(&buf, "%s/%d %s\n", snapshotMagic, snapshotVersion, c.codec.Name())
	buf.Write(payload)
	return buf.Bytes(), nil
}

// UnmarshalSnapshot decodes data written by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot

	line, payload, ok := bytes.Cut(data, []byte{'\n'})
	if !ok {
		return s, fmt.Errorf("%w: missing header", ErrInvalidSnapshot)
	}
	magic, codecName, ok := strings.Cut(string(line), " ")
	if !ok {
		return s, fmt.Errorf("%w: malformed header", ErrInvalidSnapshot)
	}
	name, version, ok := strings.Cut(magic, "/")
	if !ok || name != snapshotMagic {
		return s, fmt.Errorf("%w: bad magic", ErrInvalidSnapshot)
	}
	if v, err := strconv.Atoi(version); err != nil || v != snapshotVersion {
		return s, fmt.Errorf("%w: unsupported version %q", ErrInvalidSnapshot, version)
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}
	if err := c.Unmarshal(payload, &s); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return s, nil
}

// Save writes a snapshot of c to store under name.
func (c *Classifier) Save(ctx context.Context, store blobstore.WritableStore, name string) (err error) {
	defer func() { c.logger.LogSnapshot(ctx, "save", name, err) }()

	data, err := c.MarshalSnapshot()
	if err != nil {
		return err
	}
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("write snapshot %q: %w", name, err)
	}
	return nil
}

// Open reads a snapshot written by Save and rebuilds the Classifier.
func Open(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (clf *Classifier, err error) {
	o := applyOptions(optFns)
	defer func() { o.logger.LogSnapshot(ctx, "open", name, err) }()

	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %q: %w", name, err)
	}
	s, err := UnmarshalSnapshot(data)
	if err != nil {
		return nil, err
	}
	return FromSnapshot(s, optFns...)
}
