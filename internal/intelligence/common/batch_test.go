package common

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_AllSuccess(t *testing.T) {
	bp := NewBatchProcessor[string, string]()
	res, err := bp.Process(context.Background(), []string{"a", "b", "c"}, func(_ context.Context, item string) (string, error) {
		return item + "_processed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.SuccessCount)
	assert.Equal(t, "a_processed", res.Results[0].Result)
	assert.Equal(t, "c_processed", res.Results[2].Result)
}

func TestProcess_EmptyAndNilFn(t *testing.T) {
	bp := NewBatchProcessor[int, int]()
	res, err := bp.Process(context.Background(), nil, func(context.Context, int) (int, error) { return 0, nil })
	require.NoError(t, err)
	assert.Empty(t, res.Results)

	_, err = bp.Process(context.Background(), []int{1}, nil)
	assert.Error(t, err)
}

func TestProcess_FailureIsolated(t *testing.T) {
	bp := NewBatchProcessor[int, int](WithMaxConcurrency(2))
	res, err := bp.Process(context.Background(), []int{1, 2, 3}, func(_ context.Context, item int) (int, error) {
		if item == 2 {
			return 0, errors.New("failed")
		}
		return item * 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)
	assert.Equal(t, ItemStatusFailed, res.Results[1].Status)
	assert.Equal(t, 30, res.Results[2].Result)
}

func TestProcess_OrderIndependentOfCompletion(t *testing.T) {
	bp := NewBatchProcessor[int, int](WithMaxConcurrency(8))
	items := make([]int, 40)
	for i := range items {
		items[i] = i
	}
	res, err := bp.Process(context.Background(), items, func(_ context.Context, item int) (int, error) {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
		return item, nil
	})
	require.NoError(t, err)
	for i, r := range res.Results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, i, r.Result)
	}
}

func TestProcess_ConcurrencyLimit(t *testing.T) {
	var current, peak int32
	bp := NewBatchProcessor[int, int](WithMaxConcurrency(2))

	_, err := bp.Process(context.Background(), []int{1, 2, 3, 4, 5}, func(_ context.Context, item int) (int, error) {
		n := atomic.AddInt32(&current, 1)
		defer atomic.AddInt32(&current, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return item, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestProcess_ItemTimeout(t *testing.T) {
	bp := NewBatchProcessor[int, int](WithItemTimeout(10 * time.Millisecond))
	res, err := bp.Process(context.Background(), []int{1}, func(ctx context.Context, item int) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Second):
			return item, nil
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.FailureCount)
	assert.Equal(t, ItemStatusTimeout, res.Results[0].Status)
}

func TestProcess_CancelledContext(t *testing.T) {
	bp := NewBatchProcessor[int, int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := bp.Process(ctx, []int{1, 2}, func(context.Context, int) (int, error) { return 1, nil })
	require.NoError(t, err)
	for _, r := range res.Results {
		assert.Equal(t, ItemStatusCancelled, r.Status)
	}
}

func TestProcess_PanicRecovered(t *testing.T) {
	bp := NewBatchProcessor[int, int]()
	res, err := bp.Process(context.Background(), []int{1, 2}, func(_ context.Context, item int) (int, error) {
		if item == 1 {
			panic("boom")
		}
		return item, nil
	})
	require.NoError(t, err)
	assert.Equal(t, ItemStatusFailed, res.Results[0].Status)
	assert.Equal(t, ItemStatusSuccess, res.Results[1].Status)
}

func TestShutdown_RejectsNewBatches(t *testing.T) {
	bp := NewBatchProcessor[int, int]()
	require.NoError(t, bp.Shutdown(context.Background()))
	_, err := bp.Process(context.Background(), []int{1}, func(context.Context, int) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrShutdown)
}

func TestItemStatus_String(t *testing.T) {
	assert.Equal(t, "TIMEOUT", ItemStatusTimeout.String())
	assert.Equal(t, "UNKNOWN(9)", ItemStatus(9).String())
}

//Personal.AI order the ending
