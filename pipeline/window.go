package pipeline

import (
	"context"
	"time"
)

// TumblingWindow groups values into non-overlapping fixed-duration windows,
// emitting each window as a slice when its duration expires. The final
// partial window is emitted when the source is exhausted. Empty windows are
// skipped rather than emitted as empty slices.
func TumblingWindow[T any](p *Pipeline[T], duration time.Duration) *Pipeline[[]T] {
	return FromFunc(func(ctx context.Context) Iterator[[]T] {
		src := p.create(ctx)
		arrivals, stop := pump(ctx, src)
		exhausted := false
		return &funcIter[[]T]{
			next: func(ctx context.Context) ([]T, bool, error) {
				if exhausted {
					return nil, false, nil
				}

				var window []T
				boundary := time.NewTimer(duration)
				defer boundary.Stop()

				for {
					select {
					case e, open := <-arrivals:
						if !open {
							exhausted = true
							if len(window) > 0 {
								return window, true, nil
							}
							return nil, false, nil
						}
						if e.err != nil {
							return nil, false, e.err
						}
						window = append(window, e.val)

					case <-boundary.C:
						if len(window) > 0 {
							return window, true, nil
						}
						boundary.Reset(duration)

					case <-ctx.Done():
						return nil, false, ctx.Err()
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
