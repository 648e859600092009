package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countsDoc struct {
	Classes []string    `json:"classes"`
	Counts  [][]float64 `json:"counts"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_Interchangeable(t *testing.T) {
	in := countsDoc{
		Classes: []string{"exon", "promoter"},
		Counts:  [][]float64{{1, 0, 2}, {0, 3, 1}},
	}

	data := MustMarshal(JSON{}, in)

	var out countsDoc
	require.NoError(t, GoJSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
	assert.NotPanics(t, func() { MustMarshal(nil, countsDoc{}) })
}
