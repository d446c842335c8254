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

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	err := c.AcquireMemory(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	err = c.AcquireMemory(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// TryAcquire 20 (should fail)
	ok := c.TryAcquireMemory(20)
	assert.False(t, ok)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Acquire 20 (should block/timeout)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	err = c.AcquireMemory(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_MemoryAboveLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})
	err := c.AcquireMemory(context.Background(), 11)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Trials(t *testing.T) {
	c := NewController(Config{MaxConcurrentTrials: 2})

	require.NoError(t, c.AcquireTrial(context.Background()))
	assert.True(t, c.TryAcquireTrial())
	assert.False(t, c.TryAcquireTrial())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireTrial(ctx), context.DeadlineExceeded)

	c.ReleaseTrial()
	assert.True(t, c.TryAcquireTrial())
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	ctx := context.Background()

	require.NoError(t, c.AcquireMemory(ctx, 1<<40))
	assert.True(t, c.TryAcquireMemory(1))
	c.ReleaseMemory(1)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.NoError(t, c.AcquireTrial(ctx))
	c.ReleaseTrial()
	require.NoError(t, c.AcquireIO(ctx, 1<<20))
	assert.Equal(t, Config{}, c.Config())

	r := strings.NewReader("abc")
	assert.Same(t, io.Reader(r), c.Reader(ctx, r))
}

func TestController_RateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	src := bytes.Repeat([]byte("x"), 4096)

	r := c.Reader(context.Background(), bytes.NewReader(src))
	_, isLimited := r.(*RateLimitedReader)
	assert.True(t, isLimited)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestController_RateLimitedReaderCanceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := c.Reader(ctx, strings.NewReader("hello"))
	_, err := io.ReadAll(r)
	assert.ErrorIs(t, err, context.Canceled)
}
