package pipeline

import (
	"context"
	"time"
)

// Throttle drops values that arrive faster than the given interval: the
// first value in each interval window is emitted, the rest are discarded.
// Useful for rate-limiting downstream processing.
func Throttle[T any](p *Pipeline[T], interval time.Duration) *Pipeline[T] {
	return FromFunc(func(ctx context.Context) Iterator[T] {
		src := p.create(ctx)
		var lastEmit time.Time
		return &funcIter[T]{
			next: func(ctx context.Context) (T, bool, error) {
				for {
					v, ok, err := src.Next(ctx)
					if err != nil || !ok {
						return v, ok, err
					}
					now := time.Now()
					if lastEmit.IsZero() || now.Sub(lastEmit) >= interval {
						lastEmit = now
						return v, true, nil
					}
				}
			},
			onClose: src.Close,
		}
	})
}
