// Package batch runs independent units of work in consecutive fixed-width groups.
package batch

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Outcome is the settled result of one item.
type Outcome[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// Worker processes one item.
type Worker[T, R any] func(ctx context.Context, item T) (R, error)

// Run splits items into groups of width. Groups run one after another and the items of a
// group run concurrently, so at most width workers are in flight. A failed or panicking
// item never cancels its siblings or later groups. Items not started before ctx is done
// get ctx.Err(). Outcomes are in input order.
func Run[T, R any](ctx context.Context, items []T, width int, worker Worker[T, R]) []Outcome[T, R] {
	if width <= 0 {
		width = 1
	}

	outcomes := make([]Outcome[T, R], len(items))
	for i := range items {
		outcomes[i].Item = items[i]
	}

	for start := 0; start < len(items); start += width {
		end := min(start+width, len(items))

		if err := ctx.Err(); err != nil {
			for i := start; i < len(items); i++ {
				outcomes[i].Err = err
			}
			break
		}

		// errgroup.Group without context: a failure must not cancel siblings
		var eg errgroup.Group
		for i := start; i < end; i++ {
			eg.Go(func() error {
				outcomes[i].Value, outcomes[i].Err = call(ctx, items[i], worker)
				return nil
			})
		}
		_ = eg.Wait()
	}

	return outcomes
}

func call[T, R any](ctx context.Context, item T, worker Worker[T, R]) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New("worker panicked", goerr.V("panic", fmt.Sprint(r)))
		}
	}()
	return worker(ctx, item)
}

// Errors returns the failed outcomes.
func Errors[T, R any](outcomes []Outcome[T, R]) []Outcome[T, R] {
	var out []Outcome[T, R]
	for _, o := range outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}
