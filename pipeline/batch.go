package pipeline

import (
	"context"
	"time"
)

// Batch collects up to size values or waits timeout (whichever comes
// first), then emits them as one slice. size=0 collects until timeout;
// timeout=0 collects until size; both zero defaults to size=1. The timeout
// is checked only when a value arrives: a batch closes on the first value
// received after the timeout has expired, not while a pull is blocked.
func Batch[T any](p *Pipeline[T], size int, timeout time.Duration) *Pipeline[[]T] {
	if size <= 0 && timeout <= 0 {
		size = 1
	}
	return FromFunc(func(ctx context.Context) Iterator[[]T] {
		src := p.create(ctx)
		exhausted := false
		return &funcIter[[]T]{
			next: func(ctx context.Context) ([]T, bool, error) {
				if exhausted {
					return nil, false, nil
				}

				var deadline <-chan time.Time
				if timeout > 0 {
					t := time.NewTimer(timeout)
					defer t.Stop()
					deadline = t.C
				}

				var batch []T
				for {
					if size > 0 && len(batch) >= size {
						return batch, true, nil
					}
					v, ok, err := src.Next(ctx)
					if err != nil {
						if len(batch) > 0 {
							// Emit the partial batch; the error surfaces
							// on the next pull.
							return batch, true, nil
						}
						return nil, false, err
					}
					if !ok {
						exhausted = true
						if len(batch) > 0 {
							return batch, true, nil
						}
						return nil, false, nil
					}
					batch = append(batch, v)
					if deadline != nil {
						select {
						case <-deadline:
							return batch, true, nil
						default:
						}
					}
				}
			},
			onClose: src.Close,
		}
	})
}
