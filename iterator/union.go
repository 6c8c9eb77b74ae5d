package iterator

import "sync"

// UnionIterator merges several same-typed sources with round-robin
// fairness: each fill round advances through the sources starting where the
// previous round left off, taking the first value any of them currently has
// available. Sources may be added after construction; a source that ends is
// pruned from rotation, and the union itself ends once none remain.
type UnionIterator[T any] struct {
	*Buffered[T]

	mu      sync.Mutex
	sources []AsyncIterator[T]
	cursor  int
}

// Union returns an iterator that fairly interleaves every source's values.
// An empty sources slice produces an iterator that ends immediately unless
// Add is called before it is read.
func Union[T any](sources []AsyncIterator[T], maxBufferSize int) *UnionIterator[T] {
	u := &UnionIterator[T]{Buffered: newBuffered[T]("Union", maxBufferSize)}
	for _, s := range sources {
		_ = u.addLocked(s)
	}
	u.Buffered.fillFn = u.fill
	u.Buffered.destroyFn = u.onDestroy
	u.Buffered.endFn = u.onEnd
	u.Buffered.changeState(StateOpen, false)
	u.Buffered.SetReadable(true)
	return u
}

// Add joins source into the rotation. It is a no-op once the union is done.
func (u *UnionIterator[T]) Add(source AsyncIterator[T]) error {
	if source == nil {
		return ErrNilSource
	}
	if u.Done() {
		return nil
	}
	u.mu.Lock()
	err := u.addLocked(source)
	u.mu.Unlock()
	if err == nil {
		u.start()
	}
	return err
}

func (u *UnionIterator[T]) addLocked(source AsyncIterator[T]) error {
	if source == nil {
		return ErrNilSource
	}
	if err := source.bindDestination(u); err != nil {
		return err
	}
	u.sources = append(u.sources, source)
	source.On("readable", func(args ...any) { u.start() })
	source.On("error", func(args ...any) {
		var e error
		if len(args) > 0 {
			e, _ = args[0].(error)
		}
		u.Destroy(e)
	})
	source.On("end", func(args ...any) { u.pruneAndMaybeClose() })
	return nil
}

func (u *UnionIterator[T]) fill(push PushFunc[T], done DoneFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for i := 0; i < len(u.sources); i++ {
		idx := (u.cursor + i) % len(u.sources)
		s := u.sources[idx]
		if s.Done() {
			u.removeAtLocked(idx)
			i = -1 // restart the scan against the shrunk, re-indexed slice
			continue
		}
		v, ok := s.Read()
		if ok {
			u.cursor = (idx + 1) % len(u.sources)
			push(v)
			done(nil)
			return
		}
	}
	if len(u.sources) == 0 {
		u.closeLocked()
	}
	done(nil)
}

func (u *UnionIterator[T]) removeAtLocked(idx int) {
	u.sources = append(u.sources[:idx], u.sources[idx+1:]...)
	switch {
	case len(u.sources) == 0:
		u.cursor = 0
	case u.cursor > idx:
		u.cursor = (u.cursor - 1) % len(u.sources)
	default:
		u.cursor %= len(u.sources)
	}
}

func (u *UnionIterator[T]) pruneAndMaybeClose() {
	u.mu.Lock()
	for i := 0; i < len(u.sources); i++ {
		if u.sources[i].Done() {
			u.removeAtLocked(i)
			i = -1
		}
	}
	empty := len(u.sources) == 0
	if empty {
		u.closeLocked()
	}
	u.mu.Unlock()
	if !empty {
		u.start()
	}
}

// closeLocked requests the union's own close. It only touches lifecycle
// state, not u.sources, so it is safe to call while holding u.mu.
func (u *UnionIterator[T]) closeLocked() {
	u.Buffered.Close()
}

func (u *UnionIterator[T]) onDestroy(cause error, done func(error)) {
	u.mu.Lock()
	srcs := append([]AsyncIterator[T](nil), u.sources...)
	u.mu.Unlock()
	for _, s := range srcs {
		s.Destroy(cause)
	}
	done(nil)
}

func (u *UnionIterator[T]) onEnd(destroy bool) {
	u.mu.Lock()
	srcs := append([]AsyncIterator[T](nil), u.sources...)
	u.sources = nil
	u.mu.Unlock()
	for _, s := range srcs {
		s.unbindDestination(u)
	}
}
