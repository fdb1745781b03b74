package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach_VisitsEveryIndexOnce(t *testing.T) {
	for _, limit := range []int{0, 1, 3, 64} {
		seen := make([]int32, 100)
		ForEach(len(seen), limit, func(i int) {
			atomic.AddInt32(&seen[i], 1)
		})
		for i, n := range seen {
			assert.Equalf(t, int32(1), n, "limit=%d index=%d", limit, i)
		}
	}
}

func TestForEach_RespectsLimit(t *testing.T) {
	var running, peak int32
	ForEach(50, 4, func(int) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&running, -1)
	})
	assert.LessOrEqual(t, peak, int32(4))
}

func TestForEachContext_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var calls int32
	err := ForEachContext(context.Background(), 1000, 1, func(_ context.Context, i int) error {
		atomic.AddInt32(&calls, 1)
		if i == 3 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Less(t, atomic.LoadInt32(&calls), int32(1000))
}

func TestForEachContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	err := ForEachContext(ctx, 10, 2, func(context.Context, int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestForEachContext_NoError(t *testing.T) {
	var sum int64
	err := ForEachContext(context.Background(), 10, 3, func(_ context.Context, i int) error {
		atomic.AddInt64(&sum, int64(i))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(45), sum)
}

func TestChunks(t *testing.T) {
	tests := []struct {
		n, parts int
		want     [][2]int
	}{
		{10, 3, [][2]int{{0, 4}, {4, 7}, {7, 10}}},
		{2, 8, [][2]int{{0, 1}, {1, 2}}},
		{5, 0, [][2]int{{0, 5}}},
		{0, 4, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Chunks(tt.n, tt.parts), "Chunks(%d, %d)", tt.n, tt.parts)
	}
}
