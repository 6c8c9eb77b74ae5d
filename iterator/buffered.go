package iterator

import "github.com/kbukum/flowio/queue"

// PushFunc is handed to the begin/fill/flush hooks so they can enqueue zero
// or more values before calling their done callback.
type PushFunc[T any] func(v T)

// DoneFunc signals that a begin/fill/flush hook has finished. Calling it more
// than once panics with ErrDoneCalledTwice, matching Base.Destroy's contract.
type DoneFunc func(error)

func normalizeMaxBufferSize(n int) int {
	if n == 0 {
		return 4
	}
	if n < 1 {
		return 1
	}
	return n
}

// Buffered is the shared internal-FIFO iterator: a queue decouples
// production (the beginFn/fillFn/flushFn hooks) from consumption (Read).
// At most one of begin/fill/flush is ever in flight at a time — the "read
// lock" — and a Close requested mid-flight, or while items remain queued, is
// deferred until the buffer has actually drained. Concrete producers
// (Transform, MultiTransform) embed Buffered and assign its hooks instead of
// overriding methods, since Go embedding gives no way for Buffered's own
// internal calls to dispatch to an overriding method the way a subclass
// override would.
type Buffered[T any] struct {
	*Base[T]

	buf           *queue.Queue[T]
	maxBufferSize int

	began        bool
	reading      bool
	pendingClose bool
	flushed      bool

	beginFn func(push PushFunc[T], done DoneFunc)
	fillFn  func(push PushFunc[T], done DoneFunc)
	flushFn func(push PushFunc[T], done DoneFunc)
}

func newBuffered[T any](kind string, maxBufferSize int) *Buffered[T] {
	buf := &Buffered[T]{
		Base:          newBase[T](kind, nil),
		buf:           queue.New[T](),
		maxBufferSize: normalizeMaxBufferSize(maxBufferSize),
	}
	buf.beginFn = func(push PushFunc[T], done DoneFunc) { done(nil) }
	buf.fillFn = func(push PushFunc[T], done DoneFunc) { done(nil) }
	buf.flushFn = func(push PushFunc[T], done DoneFunc) { done(nil) }
	buf.reader = buf.read
	buf.closeFn = buf.requestClose
	buf.cleanupFn = buf.buf.Clear
	return buf
}

// push enqueues v. Handed to hooks as a PushFunc, not called directly by
// consumers.
func (b *Buffered[T]) push(v T) {
	b.buf.Push(v)
}

// BufferLength reports how many items are currently queued but unread.
func (b *Buffered[T]) BufferLength() int { return b.buf.Length() }

func (b *Buffered[T]) runExclusive(op func(push PushFunc[T], done DoneFunc), after func(error)) {
	b.reading = true
	b.sched.Schedule(func() {
		called := false
		op(b.push, func(err error) {
			if called {
				panic(ErrDoneCalledTwice)
			}
			called = true
			b.reading = false
			after(err)
		})
	})
}

func (b *Buffered[T]) read() (T, bool) {
	if b.Done() {
		var zero T
		return zero, false
	}
	if !b.began && !b.reading {
		b.began = true
		b.runExclusive(
			func(push PushFunc[T], done DoneFunc) { b.beginFn(push, done) },
			b.afterBegin,
		)
		b.SetReadable(false)
		var zero T
		return zero, false
	}
	if !b.began {
		// A close raced begin before the first read ever ran (reading is
		// held by that close's own flush, or the iterator is already done):
		// begin never gets to run, so there is nothing queued to shift yet.
		b.SetReadable(false)
		var zero T
		return zero, false
	}

	if v, ok := b.buf.Shift(); ok {
		if !b.reading {
			switch {
			case b.Closed():
				if b.buf.Length() == 0 {
					b.completeClose()
				}
			case b.buf.Length() < b.maxBufferSize:
				b.triggerFill()
			}
		}
		return v, true
	}

	// Empty read: drop the readable hint so the next push's false->true
	// transition re-fires the readable event. The flow-mode drain loop is
	// edge-triggered on that transition; without the reset here it would
	// never wake again after the first batch.
	b.SetReadable(false)
	if !b.reading {
		if b.Closed() {
			b.completeClose()
		} else {
			b.triggerFill()
		}
	}
	var zero T
	return zero, false
}

// start kicks production without consuming anything: begin runs first (once)
// and chains into the initial fill, the same gated path a first Read takes.
// External readiness signals (a source turning readable, a new union member)
// must come through here, not triggerFill, so no fill can ever run before
// begin has completed.
func (b *Buffered[T]) start() {
	if b.reading || b.Done() || b.Closed() {
		return
	}
	if !b.began {
		b.began = true
		b.runExclusive(
			func(push PushFunc[T], done DoneFunc) { b.beginFn(push, done) },
			b.afterBegin,
		)
		return
	}
	b.triggerFill()
}

func (b *Buffered[T]) triggerFill() {
	if b.reading {
		return
	}
	b.runExclusive(
		func(push PushFunc[T], done DoneFunc) { b.fillFn(push, done) },
		b.afterExclusiveOp,
	)
}

// afterExclusiveOp runs once a fill has released the read lock: it surfaces
// any error as a destroy cause, flags readable if items arrived, and resumes
// a close that was requested while the lock was held. It deliberately does
// not chain into another fill attempt on an empty result — a fill that
// produced nothing is waiting on some external readiness signal (e.g. a
// transform's source becoming readable), and auto-retrying here would spin
// without it.
func (b *Buffered[T]) afterExclusiveOp(err error) {
	if err != nil {
		b.Destroy(err)
		return
	}
	if b.buf.Length() > 0 {
		b.SetReadable(true)
	}
	if b.pendingClose {
		b.pendingClose = false
		b.completeClose()
	}
}

// afterBegin runs once begin has released the read lock. Unlike a plain
// fill, begin always chains directly into the first fill attempt — begin is
// a one-time setup step, not a repeatable production step, so there is no
// external readiness signal a caller could use to retry it.
func (b *Buffered[T]) afterBegin(err error) {
	if err != nil {
		b.Destroy(err)
		return
	}
	if b.buf.Length() > 0 {
		b.SetReadable(true)
	}
	if b.pendingClose {
		b.pendingClose = false
		b.completeClose()
		return
	}
	if !b.Closed() {
		b.triggerFill()
	}
}

// requestClose is Buffered's closeFn hook: if nothing is in flight, the
// flush sequence starts immediately; otherwise it is deferred until the
// current begin/fill operation's done callback runs.
func (b *Buffered[T]) requestClose() {
	if !b.changeState(StateClosing, false) {
		return
	}
	if b.reading {
		b.pendingClose = true
		return
	}
	b.completeClose()
}

// completeClose runs flushFn exactly once, then waits for the buffer to
// fully drain (via ordinary Read calls) before transitioning Closed->Ended.
// A close requested while items are still queued does not cut them off —
// flush appends any final items, and Ended is only reached once every
// queued value, flushed or not, has been read.
func (b *Buffered[T]) completeClose() {
	if b.reading {
		b.pendingClose = true
		return
	}
	if b.buf.Length() == 0 && b.flushed {
		b.finalizeClosed()
		return
	}
	if b.flushed {
		return // flush already ran; waiting for remaining items to be read
	}
	b.flushed = true
	b.runExclusive(
		func(push PushFunc[T], done DoneFunc) { b.flushFn(push, done) },
		func(err error) {
			if err != nil {
				b.Destroy(err)
				return
			}
			if b.buf.Length() > 0 {
				b.SetReadable(true)
				return
			}
			b.finalizeClosed()
		},
	)
}

func (b *Buffered[T]) finalizeClosed() {
	if b.changeState(StateClosed, false) {
		b.endFn(false)
		b.changeState(StateEnded, true)
	}
}
