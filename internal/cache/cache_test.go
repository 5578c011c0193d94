package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SeenAndMark(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	seen, err := c.Seen(ctx, "5,7")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, c.Mark(ctx, "5,7"))

	seen, err = c.Seen(ctx, "5,7")
	require.NoError(t, err)
	assert.True(t, seen)

	assert.NoError(t, c.Close())
}

func TestNewRedisCache_Success(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	c, err := NewRedisCache(context.Background(), "redis://"+s.Addr(), "chronorule:rule:")
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	seen, err := c.Seen(ctx, "1,2,3")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, c.Mark(ctx, "1,2,3"))

	seen, err = c.Seen(ctx, "1,2,3")
	require.NoError(t, err)
	assert.True(t, seen)

	// A different canonical key stays unseen.
	seen, err = c.Seen(ctx, "4,5,6")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-redis-url", "chronorule:rule:")
	assert.Error(t, err)
}

func TestNewRedisCache_PrefixIsolatesKeys(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	a, err := NewRedisCache(context.Background(), "redis://"+s.Addr(), "a:")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewRedisCache(context.Background(), "redis://"+s.Addr(), "b:")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Mark(context.Background(), "1"))

	seenInA, err := a.Seen(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, seenInA)

	seenInB, err := b.Seen(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, seenInB)
}
