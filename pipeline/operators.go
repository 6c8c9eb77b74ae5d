package pipeline

import "context"

// Map transforms each value using fn.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return FromFunc(func(ctx context.Context) Iterator[O] {
		src := p.create(ctx)
		return &funcIter[O]{
			next: func(ctx context.Context) (O, bool, error) {
				var zero O
				v, ok, err := src.Next(ctx)
				if err != nil || !ok {
					return zero, false, err
				}
				out, err := fn(ctx, v)
				if err != nil {
					return zero, false, err
				}
				return out, true, nil
			},
			onClose: src.Close,
		}
	})
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](p *Pipeline[T], pred func(T) bool) *Pipeline[T] {
	return FromFunc(func(ctx context.Context) Iterator[T] {
		src := p.create(ctx)
		return &funcIter[T]{
			next: func(ctx context.Context) (T, bool, error) {
				for {
					v, ok, err := src.Next(ctx)
					if err != nil || !ok {
						return v, false, err
					}
					if pred(v) {
						return v, true, nil
					}
				}
			},
			onClose: src.Close,
		}
	})
}

// FlatMap expands each value into an iterator and yields the expansion's
// values, fully draining each before pulling the next source value.
func FlatMap[I, O any](p *Pipeline[I], fn func(context.Context, I) (Iterator[O], error)) *Pipeline[O] {
	return FromFunc(func(ctx context.Context) Iterator[O] {
		src := p.create(ctx)
		var current Iterator[O]
		return &funcIter[O]{
			next: func(ctx context.Context) (O, bool, error) {
				var zero O
				for {
					if current != nil {
						v, ok, err := current.Next(ctx)
						if err != nil {
							return zero, false, err
						}
						if ok {
							return v, true, nil
						}
						_ = current.Close()
						current = nil
					}
					in, ok, err := src.Next(ctx)
					if err != nil || !ok {
						return zero, false, err
					}
					inner, err := fn(ctx, in)
					if err != nil {
						return zero, false, err
					}
					current = inner
				}
			},
			onClose: func() error {
				if current != nil {
					_ = current.Close()
				}
				return src.Close()
			},
		}
	})
}

// Tap calls fn as a side effect for each value, then passes the value
// through unchanged. Use for logging, metrics, or mid-pipeline publishing.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return Map(p, func(ctx context.Context, v T) (T, error) {
		if err := fn(ctx, v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	})
}

// Reduce folds every value into a single accumulator. The pipeline yields
// exactly one value: the final accumulator.
func Reduce[T, R any](p *Pipeline[T], init R, fn func(R, T) R) *Pipeline[R] {
	return FromFunc(func(ctx context.Context) Iterator[R] {
		src := p.create(ctx)
		acc := init
		emitted := false
		return &funcIter[R]{
			next: func(ctx context.Context) (R, bool, error) {
				var zero R
				if emitted {
					return zero, false, nil
				}
				for {
					v, ok, err := src.Next(ctx)
					if err != nil {
						return zero, false, err
					}
					if !ok {
						emitted = true
						return acc, true, nil
					}
					acc = fn(acc, v)
				}
			},
			onClose: src.Close,
		}
	})
}

// Concat joins pipelines sequentially: every value of the first, then every
// value of the second, and so on.
func Concat[T any](pipelines ...*Pipeline[T]) *Pipeline[T] {
	return FromFunc(func(ctx context.Context) Iterator[T] {
		iters := make([]Iterator[T], len(pipelines))
		for i, p := range pipelines {
			iters[i] = p.create(ctx)
		}
		idx := 0
		return &funcIter[T]{
			next: func(ctx context.Context) (T, bool, error) {
				for idx < len(iters) {
					v, ok, err := iters[idx].Next(ctx)
					if err != nil {
						return v, false, err
					}
					if ok {
						return v, true, nil
					}
					idx++
				}
				var zero T
				return zero, false, nil
			},
			onClose: func() error {
				var firstErr error
				for _, it := range iters {
					if err := it.Close(); err != nil && firstErr == nil {
						firstErr = err
					}
				}
				return firstErr
			},
		}
	})
}
