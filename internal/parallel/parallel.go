// Package parallel applies a transform to every element of a slice using a
// fixed number of workers. Results are stored at the index of their input, so
// the output order always matches the input order no matter which items finish
// first.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/typings-tools/publish-registry/internal/progress"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidLimit is returned when the concurrency limit is less than one.
var ErrInvalidLimit = errors.New("concurrency limit must be at least 1")

// Func transforms one item. It also receives the item's index and the full
// input slice for context.
type Func[T, R any] func(ctx context.Context, item T, index int, all []T) (R, error)

// Reporter receives progress updates. Update is called from worker goroutines
// and must be safe for concurrent use.
type Reporter interface {
	Start(total int)
	Update(name, detail string)
	Done()
}

// Progress describes how to render progress for a batch.
type Progress[T any] struct {
	// Name labels the whole batch, e.g. "Generating registry...".
	Name string
	// Flavor describes the item about to start. May be nil.
	Flavor func(T) string
	// Reporter defaults to a progress line on stderr.
	Reporter Reporter
}

type options[T any] struct {
	progress *Progress[T]
}

// Option configures Map.
type Option[T any] func(*options[T])

// WithProgress enables progress reporting.
func WithProgress[T any](p Progress[T]) Option[T] {
	return func(o *options[T]) {
		if p.Reporter == nil {
			p.Reporter = progress.New(os.Stderr)
		}
		o.progress = &p
	}
}

// Map runs fn over items with at most limit invocations in flight and returns
// one result per item, in input order.
//
// The first error returned by fn fails the whole batch: the context passed to
// the remaining invocations is cancelled, no further items are started, and
// Map returns a nil slice with that error.
func Map[T, R any](ctx context.Context, limit int, items []T, fn Func[T, R], opts ...Option[T]) ([]R, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}

	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	var o options[T]
	for _, opt := range opts {
		opt(&o)
	}
	if o.progress != nil {
		o.progress.Reporter.Start(len(items))
		defer o.progress.Reporter.Done()
	}

	var cursor atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for range min(limit, len(items)) {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := int(cursor.Add(1) - 1)
				if i >= len(items) {
					return nil
				}
				o.report(items[i])

				r, err := fn(gctx, items[i], i, items)
				if err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				results[i] = r
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *options[T]) report(item T) {
	if o.progress == nil {
		return
	}
	detail := ""
	if o.progress.Flavor != nil {
		detail = o.progress.Flavor(item)
	}
	o.progress.Reporter.Update(o.progress.Name, detail)
}
