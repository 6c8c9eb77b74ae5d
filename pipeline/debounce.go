package pipeline

import (
	"context"
	"time"
)

// Debounce waits for silence of the given duration after the last value
// before emitting. A new arrival during the quiet period resets the timer
// and replaces the pending value, so only the latest survives a burst.
func Debounce[T any](p *Pipeline[T], duration time.Duration) *Pipeline[T] {
	return FromFunc(func(ctx context.Context) Iterator[T] {
		src := p.create(ctx)
		arrivals, stop := pump(ctx, src)
		return &funcIter[T]{
			next: func(ctx context.Context) (T, bool, error) {
				var zero T
				var pending T
				hasPending := false
				quiet := time.NewTimer(duration)
				defer quiet.Stop()

				for {
					select {
					case e, open := <-arrivals:
						if !open {
							if hasPending {
								return pending, true, nil
							}
							return zero, false, nil
						}
						if e.err != nil {
							return zero, false, e.err
						}
						pending = e.val
						hasPending = true
						if !quiet.Stop() {
							select {
							case <-quiet.C:
							default:
							}
						}
						quiet.Reset(duration)

					case <-quiet.C:
						if hasPending {
							return pending, true, nil
						}
						quiet.Reset(duration)

					case <-ctx.Done():
						return zero, false, ctx.Err()
					}
				}
			},
			onClose: func() error {
				stop()
				return src.Close()
			},
		}
	})
}
