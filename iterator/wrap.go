package iterator

import (
	"context"
	"iter"
	"sync"

	"github.com/kbukum/flowio/pipeline"
)

// FromArray is an alias for FromSlice, keeping the array-source vocabulary
// alongside the other From* adapters.
func FromArray[T any](items []T) AsyncIterator[T] {
	return FromSlice(items)
}

// FromIterator returns source unchanged. It exists so call sites that
// accept "anything iterator-shaped" can funnel an already-built
// AsyncIterator through the same entry point as the other From* adapters.
func FromIterator[T any](source AsyncIterator[T]) AsyncIterator[T] {
	return source
}

// FromChannel adapts a Go channel into a buffered iterator. A dedicated
// goroutine drains ch (the only way to observe a channel send without
// blocking the cooperative scheduler) and hands each value to the
// scheduler goroutine before requesting the next one, so buffer mutation
// stays confined to the scheduler the way every other component expects.
func FromChannel[T any](ch <-chan T, maxBufferSize int) AsyncIterator[T] {
	buf := newBuffered[T]("Channel", maxBufferSize)
	buf.fillFn = func(push PushFunc[T], done DoneFunc) { done(nil) }

	go func() {
		for v := range ch {
			handed := make(chan struct{})
			buf.sched.Schedule(func() {
				buf.push(v)
				buf.SetReadable(true)
				close(handed)
			})
			<-handed
			if buf.Done() {
				return
			}
		}
		buf.sched.Schedule(func() { buf.Close() })
	}()

	buf.changeState(StateOpen, false)
	return buf
}

// hostIterator is the ToHostIterator bridge: data-mode emissions land in an
// inbox guarded by mu, and Next blocks on signal (or ctx) until something
// arrives or the source finishes.
type hostIterator[T any] struct {
	src    AsyncIterator[T]
	mu     sync.Mutex
	items  []T
	ended  bool
	err    error
	signal chan struct{}
}

// ToHostIterator adapts an AsyncIterator into a blocking, context-aware
// pipeline.Iterator — the inverse of WrapHostIterator. Subscribing for data
// switches src into flow mode, so values accumulate in the bridge as soon
// as they become readable; Next hands them out in order and blocks between
// arrivals.
func ToHostIterator[T any](src AsyncIterator[T]) pipeline.Iterator[T] {
	h := &hostIterator[T]{src: src, signal: make(chan struct{}, 1)}
	src.ForEach(func(v T) {
		h.mu.Lock()
		h.items = append(h.items, v)
		h.mu.Unlock()
		h.wake()
	})
	src.On("end", func(args ...any) {
		h.mu.Lock()
		h.ended = true
		h.mu.Unlock()
		h.wake()
	})
	src.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		h.mu.Lock()
		h.err = err
		h.ended = true
		h.mu.Unlock()
		h.wake()
	})
	if src.Done() {
		h.ended = true
	}
	return h
}

func (h *hostIterator[T]) wake() {
	select {
	case h.signal <- struct{}{}:
	default:
	}
}

func (h *hostIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		h.mu.Lock()
		if len(h.items) > 0 {
			v := h.items[0]
			h.items = h.items[1:]
			h.mu.Unlock()
			return v, true, nil
		}
		ended, err := h.ended, h.err
		h.mu.Unlock()
		if err != nil {
			return zero, false, err
		}
		if ended {
			return zero, false, nil
		}
		select {
		case <-ctx.Done():
			return zero, false, ctx.Err()
		case <-h.signal:
		}
	}
}

func (h *hostIterator[T]) Close() error {
	h.src.Close()
	return nil
}

// FromSeq adapts a Go range-over-func sequence into a buffered iterator.
// The sequence is pulled lazily, at most maxBufferSize values ahead of the
// consumer, and is stopped early if the iterator is closed or destroyed
// before exhaustion.
func FromSeq[T any](seq iter.Seq[T], maxBufferSize int) AsyncIterator[T] {
	buf := newBuffered[T]("Iterable", maxBufferSize)
	next, stop := iter.Pull(seq)
	exhausted := false

	buf.fillFn = func(push PushFunc[T], done DoneFunc) {
		for !exhausted && buf.BufferLength() < buf.maxBufferSize {
			v, ok := next()
			if !ok {
				exhausted = true
				stop()
				buf.Close()
				break
			}
			push(v)
		}
		done(nil)
	}
	buf.endFn = func(destroy bool) {
		if !exhausted {
			exhausted = true
			stop()
		}
	}

	buf.changeState(StateOpen, false)
	buf.SetReadable(true)
	return buf
}

// Wrap adapts an arbitrary input into an AsyncIterator[T]. Recognized
// shapes: an AsyncIterator[T] (returned as-is), a []T, a chan/<-chan T, an
// iter.Seq[T], a pipeline.Iterator[T], or a zero-arg factory returning an
// AsyncIterator[T] (resolved immediately). Anything else returns
// ErrUnsupportedWrap; a nil input returns ErrNilSource.
func Wrap[T any](v any, maxBufferSize int) (AsyncIterator[T], error) {
	switch src := v.(type) {
	case nil:
		return nil, ErrNilSource
	case AsyncIterator[T]:
		return src, nil
	case []T:
		return FromSlice(src), nil
	case chan T:
		return FromChannel((<-chan T)(src), maxBufferSize), nil
	case <-chan T:
		return FromChannel(src, maxBufferSize), nil
	case iter.Seq[T]:
		return FromSeq(src, maxBufferSize), nil
	case pipeline.Iterator[T]:
		return WrapHostIterator(context.Background(), src, maxBufferSize), nil
	case func() AsyncIterator[T]:
		it := src()
		if it == nil {
			return nil, ErrNilSource
		}
		return it, nil
	default:
		return nil, ErrUnsupportedWrap
	}
}

// WrapHostIterator adapts a context-cancellable, potentially blocking
// pipeline.Iterator (the host iterator shape used by the rest of this
// module's interop surface) into the async protocol. host.Next may block on
// I/O or a channel receive, so it is called from a dedicated goroutine; the
// result is handed to the buffer through the scheduler rather than written
// to it directly, for the same single-writer reason FromChannel uses a
// handoff channel instead of calling push from its own goroutine.
func WrapHostIterator[T any](ctx context.Context, host pipeline.Iterator[T], maxBufferSize int) AsyncIterator[T] {
	buf := newBuffered[T]("HostIterator", maxBufferSize)
	if host == nil {
		buf.changeState(StateOpen, false)
		buf.Destroy(ErrNilSource)
		return buf
	}

	buf.fillFn = func(push PushFunc[T], done DoneFunc) { done(nil) }
	buf.destroyFn = func(cause error, done func(error)) {
		_ = host.Close()
		done(nil)
	}
	buf.endFn = func(destroy bool) {
		if !destroy {
			_ = host.Close()
		}
	}

	go func() {
		for {
			v, ok, err := host.Next(ctx)
			if err != nil {
				buf.sched.Schedule(func() { buf.Destroy(err) })
				return
			}
			if !ok {
				buf.sched.Schedule(func() { buf.Close() })
				return
			}
			handed := make(chan struct{})
			buf.sched.Schedule(func() {
				buf.push(v)
				buf.SetReadable(true)
				close(handed)
			})
			<-handed
			if buf.Done() {
				return
			}
		}
	}()

	buf.changeState(StateOpen, false)
	return buf
}
