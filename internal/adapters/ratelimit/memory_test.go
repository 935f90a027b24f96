package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "ana@example.com")
		require.NoError(t, err)
		require.True(t, ok, "attempt %d", i)
		require.NoError(t, l.Fail(ctx, "ana@example.com"))
	}

	ok, err := l.Allow(ctx, "ANA@example.com ")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "otro@example.com")
	assert.True(t, ok)
}

func TestMemoryResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(1, time.Minute)

	require.NoError(t, l.Fail(ctx, "k"))
	ok, _ := l.Allow(ctx, "k")
	require.False(t, ok)

	require.NoError(t, l.Reset(ctx, "k"))
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryWindowExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	l := NewMemory(1, 15*time.Minute)
	l.now = func() time.Time { return now }

	require.NoError(t, l.Fail(ctx, "k"))
	ok, _ := l.Allow(ctx, "k")
	require.False(t, ok)

	now = now.Add(15 * time.Minute)
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}
