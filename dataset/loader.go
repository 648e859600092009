package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/dnaclass/blobstore"
)

// Loader reads datasets from a blob store.
type Loader struct {
	store blobstore.BlobStore
	opts  options
}

// NewLoader returns a Loader reading from store.
func NewLoader(store blobstore.BlobStore, opts ...Option) *Loader {
	return &Loader{
		store: store,
		opts:  applyOptions(opts),
	}
}

// Load reads and parses the dataset stored under name.
func (l *Loader) Load(ctx context.Context, name string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := blobstore.OpenReader(ctx, l.store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("dataset: open %s: %w", name, err)
	}
	defer rc.Close()

	var raw io.Reader = &ctxReader{ctx: ctx, r: rc}
	if l.opts.wrapReader != nil {
		raw = l.opts.wrapReader(ctx, raw)
	}

	r, release, err := decompress(raw, name, l.opts.compression)
	if err != nil {
		return nil, err
	}
	defer release()

	ds, err := read(r, &l.opts)
	if err != nil {
		return nil, err
	}
	ds.Source = name
	return ds, nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
