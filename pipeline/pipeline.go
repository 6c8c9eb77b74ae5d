package pipeline

import "context"

// Iterator provides blocking, pull-based sequential access to a stream of
// values. It is the synchronous counterpart of the iterator package's
// event-driven AsyncIterator, and the shape the iterator package bridges in
// both directions.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Pipeline is a lazy, pull-based stream description. Nothing runs until a
// terminal (Collect, Drain, ForEach) or Iter pulls values.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Runnable is a fully-configured pipeline ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the pipeline until completion or context cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// --- Constructors ---

// From creates a pipeline from an existing Iterator.
func From[T any](it Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{create: func(context.Context) Iterator[T] { return it }}
}

// FromSlice creates a pipeline over the elements of items, in order.
func FromSlice[T any](items []T) *Pipeline[T] {
	return FromFunc(func(context.Context) Iterator[T] {
		idx := 0
		return &funcIter[T]{
			next: func(context.Context) (T, bool, error) {
				if idx >= len(items) {
					var zero T
					return zero, false, nil
				}
				v := items[idx]
				idx++
				return v, true, nil
			},
		}
	})
}

// FromFunc creates a pipeline from a factory that produces an Iterator.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{create: fn}
}

// --- Terminals ---

// Drain creates a Runnable that pulls every value and hands each to sink.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			it := p.create(ctx)
			defer it.Close()
			for {
				v, ok, err := it.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := sink(ctx, v); err != nil {
					return err
				}
			}
		},
	}
}

// Collect runs the pipeline and returns every value as a slice.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	var out []T
	err := Drain(p, func(_ context.Context, v T) error {
		out = append(out, v)
		return nil
	}).Run(ctx)
	return out, err
}

// ForEach pulls every value and calls fn for each.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	return Drain(p, fn).Run(ctx)
}

// Iter returns the raw Iterator for this pipeline. The caller must Close it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.create(ctx)
}

// --- Internal plumbing ---

// funcIter adapts a pair of closures into an Iterator. Operators capture
// their per-run state in the closure instead of declaring a struct each.
type funcIter[T any] struct {
	next    func(ctx context.Context) (T, bool, error)
	onClose func() error
}

func (it *funcIter[T]) Next(ctx context.Context) (T, bool, error) {
	return it.next(ctx)
}

func (it *funcIter[T]) Close() error {
	if it.onClose != nil {
		return it.onClose()
	}
	return nil
}

// emission carries one value or one error through a pump channel. Channel
// close signals exhaustion.
type emission[T any] struct {
	val T
	err error
}

// pump drains src on its own goroutine into the returned channel, so
// time-based operators can select between arrival and timer expiry. The
// returned stop function cancels the goroutine; callers must also Close the
// source themselves.
func pump[T any](ctx context.Context, src Iterator[T]) (<-chan emission[T], context.CancelFunc) {
	pumpCtx, stop := context.WithCancel(ctx)
	ch := make(chan emission[T], 1)
	go func() {
		defer close(ch)
		for {
			v, ok, err := src.Next(pumpCtx)
			if err != nil {
				select {
				case ch <- emission[T]{err: err}:
				case <-pumpCtx.Done():
				}
				return
			}
			if !ok {
				return
			}
			select {
			case ch <- emission[T]{val: v}:
			case <-pumpCtx.Done():
				return
			}
		}
	}()
	return ch, stop
}
