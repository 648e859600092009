package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Concurrency(t *testing.T) {
	c := NewController(Config{MaxConcurrentQueries: 2})

	// Acquire 2
	r1, err := c.Acquire(context.Background())
	require.NoError(t, err)
	r2, err := c.TryAcquire()
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.InFlight())

	// Try 3rd
	_, err = c.TryAcquire()
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, int64(1), c.Rejected())

	// Blocking acquire times out
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(2), c.Rejected())

	// Release 1, twice; the second call is a no-op
	r1()
	r1()
	assert.Equal(t, int64(1), c.InFlight())

	// Try 3rd again
	r3, err := c.TryAcquire()
	require.NoError(t, err)
	_, err = c.TryAcquire()
	assert.ErrorIs(t, err, ErrRejected)

	r2()
	r3()
	assert.Equal(t, int64(0), c.InFlight())
	assert.Equal(t, int64(3), c.Admitted())
}

func TestController_Rate(t *testing.T) {
	c := NewController(Config{QueriesPerSecond: 1, Burst: 2})

	for range 2 {
		release, err := c.TryAcquire()
		require.NoError(t, err)
		release()
	}

	_, err := c.TryAcquire()
	assert.ErrorIs(t, err, ErrRejected)
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})

	for range 100 {
		release, err := c.TryAcquire()
		require.NoError(t, err)
		defer release()
	}
	assert.Equal(t, int64(100), c.InFlight())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	release, err := c.Acquire(context.Background())
	require.NoError(t, err)
	release()

	release, err = c.TryAcquire()
	require.NoError(t, err)
	release()

	assert.Zero(t, c.InFlight())
	assert.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestRateLimitedReader(t *testing.T) {
	data := strings.Repeat("ACGT", 256)

	t.Run("Unlimited", func(t *testing.T) {
		r := NewRateLimitedReader(context.Background(), strings.NewReader(data), NewController(Config{}))
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, data, string(got))
	})

	t.Run("Limited", func(t *testing.T) {
		// Burst covers the whole payload, so no read has to wait.
		c := NewController(Config{IOLimitBytesPerSec: int64(len(data))})
		r := NewRateLimitedReader(context.Background(), bytes.NewReader([]byte(data)), c)

		buf := make([]byte, 4*len(data))
		n, err := r.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, len(data), n)
	})

	t.Run("Canceled", func(t *testing.T) {
		c := NewController(Config{IOLimitBytesPerSec: 1})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := NewRateLimitedReader(ctx, strings.NewReader(data), c)
		_, err := r.Read(make([]byte, 1))
		assert.Error(t, err)
	})
}
