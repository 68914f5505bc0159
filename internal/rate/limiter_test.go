package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, "", 2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "1.2.3.4|/authorization/decision")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, "1.2.3.4|/authorization/decision")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining)
	assert.Equal(t, int64(3), res.CurrentHits)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	// otra key, otra cuenta
	res, err = l.Allow(ctx, "5.6.7.8|/authorization/decision")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	base := time.Date(2026, 1, 1, 10, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return base }
	ctx := context.Background()

	res, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 50*time.Second, res.WindowTTL)

	res, _ = l.Allow(ctx, "k")
	assert.False(t, res.Allowed)
	assert.Equal(t, 50*time.Second, res.RetryAfter)

	// ventana siguiente
	l.now = func() time.Time { return base.Add(time.Minute) }
	res, _ = l.Allow(ctx, "k")
	assert.True(t, res.Allowed)
}
