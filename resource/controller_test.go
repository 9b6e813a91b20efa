package resource

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_ThreadBound(t *testing.T) {
	c := NewController(Config{MaxThreads: 2})

	require.NoError(t, c.AcquireThread(context.Background()))
	require.NoError(t, c.AcquireThread(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	err := c.AcquireThread(ctx)
	assert.Error(t, err)

	c.ReleaseThread()
	require.NoError(t, c.AcquireThread(context.Background()))
}

func TestController_DefaultThreadBound(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(1), c.MaxThreads())
}

func TestController_UnlimitedWrite(t *testing.T) {
	c := NewController(Config{})
	assert.NoError(t, c.AcquireWrite(context.Background(), 1<<20))
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller
	assert.NoError(t, c.AcquireWrite(context.Background(), 10))
}

func TestController_WriterThrottlesBytes(t *testing.T) {
	c := NewController(Config{WriteBytesPerSec: 1 << 20})
	var buf bytes.Buffer
	w := c.Writer(context.Background(), &buf)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())
}

func TestController_WriterNilControllerPassesThrough(t *testing.T) {
	var c *Controller
	var buf bytes.Buffer
	w := c.Writer(context.Background(), &buf)

	_, err := w.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", buf.String())
}
