package dataset

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/hupe1980/dnaclass/blobstore"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `sequence,label
ATGCGA,promoter
GGCTTA,exon
ATGATG,promoter
`

func TestRead_Basic(t *testing.T) {
	ds, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, 0, ds.Dropped)
	assert.Equal(t, []string{"ATGCGA", "GGCTTA", "ATGATG"}, ds.Sequences())
	assert.Equal(t, []string{"promoter", "exon", "promoter"}, ds.Labels())
	assert.Equal(t, []string{"exon", "promoter"}, ds.Classes())
	assert.Equal(t, map[string]int{"exon": 1, "promoter": 2}, ds.ClassCounts())
}

func TestRead_ExtraColumnsAndOrder(t *testing.T) {
	in := "id,label,gc,sequence\n1,exon,0.5,GGCTTA\n2,promoter,0.4,ATGCGA\n"

	ds, err := Read(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []Record{
		{Sequence: "GGCTTA", Label: "exon"},
		{Sequence: "ATGCGA", Label: "promoter"},
	}, ds.Records)
}

func TestRead_DropsMissingValues(t *testing.T) {
	in := strings.Join([]string{
		"sequence,label",
		"ATGCGA,promoter",
		",exon",
		"GGCTTA,",
		"NA,exon",
		"ATGATG,NaN",
		"CCCGGG,null",
		"TTTAAA,<NA>",
		"TTT",
		"ACGTAC,exon",
	}, "\n")

	ds, err := Read(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 7, ds.Dropped)
	assert.Equal(t, []string{"promoter", "exon"}, ds.Labels())
}

func TestRead_CustomNAValues(t *testing.T) {
	in := "sequence,label\nATGCGA,unknown\nGGCTTA,exon\n"

	ds, err := Read(strings.NewReader(in), WithNAValues("unknown"))
	require.NoError(t, err)

	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, 1, ds.Dropped)
}

func TestRead_CustomColumns(t *testing.T) {
	in := "dna,class\nATGCGA,promoter\n"

	ds, err := Read(strings.NewReader(in), WithColumns("dna", "class"))
	require.NoError(t, err)
	assert.Equal(t, []Record{{Sequence: "ATGCGA", Label: "promoter"}}, ds.Records)
}

func TestRead_TabDelimited(t *testing.T) {
	in := "sequence\tlabel\nATGCGA\tpromoter\n"

	ds, err := Read(strings.NewReader(in), WithComma('\t'))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestRead_StripsBOM(t *testing.T) {
	in := "\ufeffsequence,label\nATGCGA,promoter\n"

	ds, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestRead_QuotedFields(t *testing.T) {
	in := "sequence,label\n\"ATG CGA\",\"promoter, core\"\n"

	ds, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Record{{Sequence: "ATG CGA", Label: "promoter, core"}}, ds.Records)
}

func TestRead_Errors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := Read(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("BlankLines", func(t *testing.T) {
		_, err := Read(strings.NewReader("\n\n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("MissingSequence", func(t *testing.T) {
		_, err := Read(strings.NewReader("dna,label\nATG,exon\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), `"sequence"`)
	})

	t.Run("MissingLabel", func(t *testing.T) {
		_, err := Read(strings.NewReader("sequence,class\nATG,exon\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), `"label"`)
	})
}

func TestRead_HeaderOnly(t *testing.T) {
	ds, err := Read(strings.NewReader("sequence,label\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "dna.csv", []byte(sampleCSV)))

	ds, err := NewLoader(store).Load(ctx, "dna.csv")
	require.NoError(t, err)
	assert.Equal(t, "dna.csv", ds.Source)
	assert.Equal(t, 3, ds.Len())
}

func TestLoader_LocalStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "data/dna.csv", []byte(sampleCSV)))

	ds, err := NewLoader(store).Load(ctx, "data/dna.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestLoader_NotFound(t *testing.T) {
	_, err := NewLoader(blobstore.NewMemoryStore()).Load(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewLoader(blobstore.NewLocalStore(t.TempDir())).Load(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoader_EmptyFile(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "empty.csv", nil))

	_, err := NewLoader(store).Load(ctx, "empty.csv")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoader_Canceled(t *testing.T) {
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "dna.csv", []byte(sampleCSV)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(store).Load(ctx, "dna.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func lz4Bytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoader_Compressed(t *testing.T) {
	ctx := context.Background()
	raw := []byte(sampleCSV)

	cases := []struct {
		name string
		data []byte
	}{
		{"dna.csv.gz", gzipBytes(t, raw)},
		{"dna.csv.zst", zstdBytes(t, raw)},
		{"dna.csv.lz4", lz4Bytes(t, raw)},
		// No telling extension: detected from magic bytes.
		{"sniff-gzip", gzipBytes(t, raw)},
		{"sniff-zstd", zstdBytes(t, raw)},
		{"sniff-lz4", lz4Bytes(t, raw)},
	}

	store := blobstore.NewMemoryStore()
	for _, tc := range cases {
		require.NoError(t, store.Put(ctx, tc.name, tc.data))
	}

	loader := NewLoader(store)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := loader.Load(ctx, tc.name)
			require.NoError(t, err)
			assert.Equal(t, 3, ds.Len())
		})
	}
}

func TestLoader_ForcedCompression(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "dna.dat", gzipBytes(t, []byte(sampleCSV))))

	ds, err := NewLoader(store, WithCompression(CompressionGzip)).Load(ctx, "dna.dat")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	_, err = NewLoader(store, WithCompression(CompressionZstd)).Load(ctx, "dna.dat")
	assert.Error(t, err)
}

func TestCompression_String(t *testing.T) {
	assert.Equal(t, "auto", CompressionAuto.String())
	assert.Equal(t, "gzip", CompressionGzip.String())
	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "unknown", Compression(42).String())
}

func TestLoader_ReadWrapper(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "dna.csv.gz", gzipBytes(t, []byte(sampleCSV))))

	var wrapped int
	loader := NewLoader(store, WithReadWrapper(func(_ context.Context, r io.Reader) io.Reader {
		wrapped++
		return r
	}))

	ds, err := loader.Load(ctx, "dna.csv.gz")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, 1, wrapped)
}
