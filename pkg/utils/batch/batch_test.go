package batch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/utils/batch"
)

func TestRun(t *testing.T) {
	t.Run("outcomes keep input order", func(t *testing.T) {
		items := []int{5, 4, 3, 2, 1}
		outcomes := batch.Run(context.Background(), items, 2, func(ctx context.Context, n int) (int, error) {
			time.Sleep(time.Duration(n) * time.Millisecond)
			return n * 10, nil
		})

		gt.A(t, outcomes).Length(5)
		for i, o := range outcomes {
			gt.V(t, o.Item).Equal(items[i])
			gt.V(t, o.Value).Equal(items[i] * 10)
			gt.NoError(t, o.Err)
		}
	})

	t.Run("never more than width in flight", func(t *testing.T) {
		var inFlight, peak atomic.Int32
		items := make([]int, 23)

		batch.Run(context.Background(), items, 4, func(ctx context.Context, _ int) (struct{}, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
			return struct{}{}, nil
		})

		gt.True(t, peak.Load() <= 4)
		gt.True(t, peak.Load() >= 1)
	})

	t.Run("groups run in sequence", func(t *testing.T) {
		var mu sync.Mutex
		var finished []int
		items := []int{0, 1, 2, 3, 4, 5}

		batch.Run(context.Background(), items, 3, func(ctx context.Context, n int) (struct{}, error) {
			if n < 3 {
				time.Sleep(10 * time.Millisecond)
			}
			mu.Lock()
			finished = append(finished, n)
			mu.Unlock()
			return struct{}{}, nil
		})

		gt.A(t, finished).Length(6)
		for _, n := range finished[:3] {
			gt.True(t, n < 3)
		}
		for _, n := range finished[3:] {
			gt.True(t, n >= 3)
		}
	})

	t.Run("failure and panic are isolated", func(t *testing.T) {
		var called atomic.Int32
		items := []string{"ok", "fail", "panic", "ok", "ok"}

		outcomes := batch.Run(context.Background(), items, 2, func(ctx context.Context, s string) (string, error) {
			called.Add(1)
			switch s {
			case "fail":
				return "", errors.New("clone failed")
			case "panic":
				panic("unexpected")
			}
			return s, nil
		})

		gt.V(t, called.Load()).Equal(int32(5))
		gt.NoError(t, outcomes[0].Err)
		gt.Error(t, outcomes[1].Err)
		gt.Error(t, outcomes[2].Err)
		gt.NoError(t, outcomes[3].Err)
		gt.NoError(t, outcomes[4].Err)
		gt.A(t, batch.Errors(outcomes)).Length(2)
	})

	t.Run("cancelled context fails pending groups", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var called atomic.Int32

		outcomes := batch.Run(ctx, []int{1, 2, 3, 4}, 2, func(ctx context.Context, n int) (int, error) {
			called.Add(1)
			cancel()
			return n, nil
		})

		gt.V(t, called.Load()).Equal(int32(2))
		gt.NoError(t, outcomes[0].Err)
		gt.True(t, errors.Is(outcomes[2].Err, context.Canceled))
		gt.True(t, errors.Is(outcomes[3].Err, context.Canceled))
	})

	t.Run("empty input", func(t *testing.T) {
		outcomes := batch.Run(context.Background(), []int{}, 10, func(ctx context.Context, n int) (int, error) {
			return n, nil
		})
		gt.A(t, outcomes).Length(0)
	})
}
