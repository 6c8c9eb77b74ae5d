package iterator

import "sync"

// history is the append-only log shared by every clone of one source: the
// source is read at most once per value, and each clone tracks its own
// cursor into the log instead of re-reading the source.
type history[T any] struct {
	mu      sync.Mutex
	source  AsyncIterator[T]
	log     []T
	ended   bool
	err     error
	pulling bool
	readers []*CloneIterator[T]
}

func newHistory[T any](source AsyncIterator[T]) *history[T] {
	h := &history[T]{source: source}
	source.On("readable", func(args ...any) { h.pump() })
	source.On("end", func(args ...any) { h.finish(nil) })
	source.On("error", func(args ...any) {
		var e error
		if len(args) > 0 {
			e, _ = args[0].(error)
		}
		h.finish(e)
	})
	return h
}

// pump drains every value currently available from source into the log,
// then wakes every clone that might now have something to read.
func (h *history[T]) pump() {
	h.mu.Lock()
	if h.pulling || h.ended {
		h.mu.Unlock()
		return
	}
	h.pulling = true
	for {
		v, ok := h.source.Read()
		if !ok {
			break
		}
		h.log = append(h.log, v)
	}
	h.pulling = false
	readers := append([]*CloneIterator[T](nil), h.readers...)
	h.mu.Unlock()
	for _, r := range readers {
		r.notify()
	}
}

func (h *history[T]) finish(err error) {
	h.mu.Lock()
	h.ended = true
	h.err = err
	readers := append([]*CloneIterator[T](nil), h.readers...)
	h.mu.Unlock()
	for _, r := range readers {
		r.notify()
	}
}

func (h *history[T]) at(idx int) (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if idx < len(h.log) {
		return h.log[idx], true
	}
	var zero T
	return zero, false
}

func (h *history[T]) length() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.log)
}

func (h *history[T]) isEnded() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ended, h.err
}

func (h *history[T]) requestPull() {
	h.mu.Lock()
	skip := h.pulling || h.ended
	h.mu.Unlock()
	if !skip {
		h.pump()
	}
}

func (h *history[T]) addReader(c *CloneIterator[T]) {
	h.mu.Lock()
	h.readers = append(h.readers, c)
	h.mu.Unlock()
}

func (h *history[T]) removeReader(c *CloneIterator[T]) {
	h.mu.Lock()
	for i, r := range h.readers {
		if r == c {
			h.readers = append(h.readers[:i], h.readers[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
}

// CloneIterator is one independent reader over a shared history log.
type CloneIterator[T any] struct {
	*Base[T]
	h   *history[T]
	idx int
}

func (c *CloneIterator[T]) read() (T, bool) {
	if v, ok := c.h.at(c.idx); ok {
		c.idx++
		if c.h.length() > c.idx {
			c.SetReadable(true)
		}
		return v, true
	}
	if ended, err := c.h.isEnded(); ended {
		if err != nil {
			c.Destroy(err)
		} else {
			c.changeState(StateEnded, true)
		}
		var zero T
		return zero, false
	}
	// Exhausted for now: drop the readable hint before pulling, so the
	// pump's notify (or a later source readable) re-fires it with a fresh
	// false->true transition.
	c.SetReadable(false)
	c.h.requestPull()
	if c.h.length() > c.idx {
		c.SetReadable(true)
	}
	var zero T
	return zero, false
}

func (c *CloneIterator[T]) notify() {
	if c.Done() {
		return
	}
	if c.h.length() > c.idx {
		c.SetReadable(true)
		return
	}
	if ended, _ := c.h.isEnded(); ended {
		c.SetReadable(true)
	}
}

// GetProperty checks this clone's own store first, falling back to the
// shared source's store so every clone observes properties the producer set
// before any clone existed.
func (c *CloneIterator[T]) GetProperty(name string) (any, bool) {
	if v, ok := c.Base.GetProperty(name); ok {
		return v, ok
	}
	return c.h.source.GetProperty(name)
}

// GetPropertyAsync mirrors GetProperty's own-store-then-source cascade.
func (c *CloneIterator[T]) GetPropertyAsync(name string, cb func(any)) {
	if v, ok := c.Base.GetProperty(name); ok {
		if cb != nil {
			c.Scheduler().Schedule(func() { cb(v) })
		}
		return
	}
	c.h.source.GetPropertyAsync(name, cb)
}

// Clonable wraps a source so it can be read independently by any number of
// clones, each seeing every value exactly once and in order, without the
// source itself being read more than once.
type Clonable[T any] struct {
	h *history[T]
}

// NewClonable attaches a shared history log to source. Call this once per
// source; call Clone as many times as independent readers are needed.
func NewClonable[T any](source AsyncIterator[T]) *Clonable[T] {
	return &Clonable[T]{h: newHistory(source)}
}

// Clone returns a new independent reader starting from the beginning of the
// shared history.
func (cl *Clonable[T]) Clone() AsyncIterator[T] {
	c := &CloneIterator[T]{Base: newBase[T]("Clone", nil), h: cl.h}
	c.reader = c.read
	c.destroyFn = func(cause error, done func(error)) { done(nil) }
	c.endFn = func(destroy bool) { cl.h.removeReader(c) }
	cl.h.addReader(c)
	c.changeState(StateOpen, false)
	if ended, _ := cl.h.isEnded(); ended || cl.h.length() > 0 {
		c.SetReadable(true)
	}
	return c
}
