// Package iterator implements the asynchronous pull-based iterator
// framework: the shared lifecycle state machine, the dual-mode pull/push
// read protocol, internal buffering, transform and multi-transform
// pipelines, round-robin union, and history-backed cloning.
package iterator

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/flowio/errors"
	"github.com/kbukum/flowio/event"
	"github.com/kbukum/flowio/logger"
	"github.com/kbukum/flowio/scheduler"
)

// Errors surfaced as contract violations: raised synchronously against the
// offending caller rather than delivered through the error event. Each is a
// structured AppError so hosts can match on its Code as well as with
// errors.Is against these sentinels.
var (
	ErrNilSource          = apperrors.InvalidSource("source must not be nil")
	ErrInvalidSource      = apperrors.InvalidSource("source does not implement a recognized iterator, iterable, or emitter protocol")
	ErrDestinationClaimed = apperrors.DestinationClaimed()
	ErrSourceAlreadySet   = apperrors.SourceAlreadySet()
	ErrDoneCalledTwice    = apperrors.DoneCalledTwice("completion callback")
	ErrUnsupportedWrap    = apperrors.UnsupportedWrap("")
)

// PropertyReader exposes read-only access to an iterator's property store,
// the minimal surface CopyProperties needs from a source.
type PropertyReader interface {
	GetProperty(name string) (any, bool)
	GetPropertyAsync(name string, cb func(any))
}

// ToArrayResult is the eventual outcome of ToArray: every item observed
// before resolution, and an error if the source reported one.
type ToArrayResult[T any] struct {
	Items []T
	Err   error
}

// AsyncIterator is the full consumer-facing surface shared by every
// iterator in this package. It is satisfied automatically by
// any type that embeds *Base[T] and wires a reader function, because method
// promotion gives it every Base method for free.
type AsyncIterator[T any] interface {
	Read() (T, bool)
	Close()
	Destroy(cause error)

	Readable() bool
	SetReadable(v bool)
	State() State
	Closed() bool
	Ended() bool
	Destroyed() bool
	Done() bool

	GetProperty(name string) (any, bool)
	GetPropertyAsync(name string, cb func(any))
	SetProperty(name string, value any)
	GetProperties() map[string]any
	SetProperties(values map[string]any)
	CopyProperties(source PropertyReader, names []string)

	ForEach(cb func(T))
	ToArray(limit int) <-chan ToArrayResult[T]

	On(name string, fn event.Listener) event.Subscription
	Off(sub event.Subscription)

	String() string

	bindDestination(owner any) error
	unbindDestination(owner any)
}

// Base implements the state machine, dual-mode emission, property store,
// and consumer-facing operations shared by every concrete iterator. Concrete
// iterators embed *Base[T] and customize behavior by assigning the reader,
// destroyFn, closeFn, and endFn hooks in their constructor — Go has no
// virtual dispatch through embedding, so these function fields stand in for
// the overridable read/destroy/close/end behaviors a class hierarchy would
// give.
type Base[T any] struct {
	mu    sync.Mutex
	id    string
	kind  string
	event *event.Emitter
	sched scheduler.Scheduler
	log   *logger.Logger

	state        State
	readableFlag bool
	claimedBy    any

	props *propertyStore

	newListenerSub event.Subscription
	drainSub       *event.Subscription

	reader    func() (T, bool)
	destroyFn func(cause error, done func(error))
	closeFn   func()
	endFn     func(destroy bool)
	cleanupFn func()
}

// newBase constructs a Base in StateInit with no-op default hooks. kind
// names the concrete type for String()/logging (e.g. "Buffered", "Union").
func newBase[T any](kind string, sched scheduler.Scheduler) *Base[T] {
	if sched == nil {
		sched = scheduler.Get()
	}
	b := &Base[T]{
		id:    uuid.NewString(),
		kind:  kind,
		event: event.New(),
		sched: sched,
		state: StateInit,
	}
	b.props = newPropertyStore(sched)
	b.reader = func() (T, bool) { var zero T; return zero, false }
	b.destroyFn = func(cause error, done func(error)) { done(nil) }
	b.endFn = func(destroy bool) {}
	b.closeFn = b.defaultClose
	b.newListenerSub = b.event.On("newListener", b.onNewListener)
	return b
}

// SetLogger attaches a component logger; state transitions and destroy
// causes are logged at debug/warn level when set. Logging is entirely
// optional — an iterator with no logger stays silent.
func (b *Base[T]) SetLogger(l *logger.Logger) { b.log = l }

// ID returns the iterator instance's unique identifier.
func (b *Base[T]) ID() string { return b.id }

// Emitter exposes the underlying event bus for sibling packages composing
// iterators (transform/union/clone wiring listeners across source and
// destination of different element types).
func (b *Base[T]) Emitter() *event.Emitter { return b.event }

// Scheduler returns the scheduler this iterator defers work on.
func (b *Base[T]) Scheduler() scheduler.Scheduler { return b.sched }

func (b *Base[T]) String() string {
	return fmt.Sprintf("%s(%s)", b.kind, b.id)
}

// --- Lifecycle state ---

// State returns the current lifecycle state.
func (b *Base[T]) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Closed reports state >= StateClosing.
func (b *Base[T]) Closed() bool { return b.State().Closed() }

// Ended reports state == StateEnded.
func (b *Base[T]) Ended() bool { return b.State().Ended() }

// Destroyed reports state == StateDestroyed.
func (b *Base[T]) Destroyed() bool { return b.State().Destroyed() }

// Done reports state >= StateEnded.
func (b *Base[T]) Done() bool { return b.State().Done() }

// changeState accepts the transition iff newState > current state and the
// current state is not yet terminal (< StateEnded). Returns whether the
// transition was applied. On a transition to StateEnded it emits "end",
// synchronously or deferred per eventAsync.
func (b *Base[T]) changeState(newState State, eventAsync bool) bool {
	b.mu.Lock()
	if newState <= b.state || b.state >= StateEnded {
		b.mu.Unlock()
		return false
	}
	b.state = newState
	b.mu.Unlock()

	if b.log != nil {
		b.log.Debug("iterator state changed", logger.Fields("iterator", b.String(), "state", newState.String()))
	}

	if newState == StateEnded {
		if eventAsync {
			b.sched.Schedule(func() { b.finishEnd() })
		} else {
			b.finishEnd()
		}
	}
	return true
}

// finishEnd emits "end" and releases listeners/properties/buffer state.
// Cleanup must happen in the same call as the emission (not scheduled
// separately) or a listener subscribed between "end" being scheduled and it
// running would never be notified, and RemoveAll would otherwise race with
// the very emission it is meant to run after.
func (b *Base[T]) finishEnd() {
	b.event.Emit("end")
	b.cleanup()
}

func (b *Base[T]) cleanup() {
	b.mu.Lock()
	b.readableFlag = false
	b.mu.Unlock()
	if b.cleanupFn != nil {
		b.cleanupFn()
	}
	b.props.release()
	b.event.RemoveAll("")
}

// --- Readable ---

// Readable reports the current readable hint.
func (b *Base[T]) Readable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readableFlag
}

// SetReadable sets the readable hint. Setting true-from-false schedules an
// asynchronous "readable" emission. Setting true while done coerces to
// false. Setting false is silent.
func (b *Base[T]) SetReadable(v bool) {
	b.mu.Lock()
	if b.state.Done() {
		v = false
	}
	prev := b.readableFlag
	b.readableFlag = v
	b.mu.Unlock()

	if !prev && v {
		b.sched.Schedule(func() { b.event.Emit("readable") })
	}
}

// --- Read / Close / Destroy ---

// Read pulls the next value via the installed reader hook. The default hook
// always returns (zero, false); concrete iterators overwrite it in their
// constructor.
func (b *Base[T]) Read() (T, bool) {
	return b.reader()
}

func (b *Base[T]) defaultClose() {
	if b.changeState(StateClosed, false) {
		b.sched.Schedule(func() { b.endFn(false); b.changeState(StateEnded, true) })
	}
}

// Close requests a graceful shutdown. Idempotent; safe to call more than
// once or after the iterator is already done.
func (b *Base[T]) Close() {
	b.closeFn()
}

// Destroy is an immediate, non-graceful cancellation. If the iterator is not
// already done, the destroyFn hook runs; when it calls back with an error
// (or cause is non-nil), "error" is emitted exactly once, then the iterator
// transitions directly to StateDestroyed without ever emitting "end".
// Idempotent once done.
func (b *Base[T]) Destroy(cause error) {
	b.mu.Lock()
	if b.state.Done() {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	called := false
	b.destroyFn(cause, func(err error) {
		if called {
			panic(ErrDoneCalledTwice)
		}
		called = true

		// Commit the terminal state before doing anything observable. A
		// destroyFn that forwards cause to a bound destination (Transform and
		// friends do) can trigger a listener that calls back into this same
		// iterator's Destroy re-entrantly, on the same goroutine, before this
		// call ever reaches this point again; the Done() check above only
		// guards entry, not re-entry mid-callback. Marking state here first
		// makes that re-entrant call a no-op instead of looping forever.
		b.mu.Lock()
		alreadyDone := b.state.Done()
		if !alreadyDone {
			b.state = StateDestroyed
		}
		b.mu.Unlock()
		if alreadyDone {
			return
		}

		final := cause
		if final == nil {
			final = err
		}
		if final != nil {
			if b.log != nil {
				b.log.Warn("iterator destroyed with cause", logger.Fields("iterator", b.String(), "cause", final.Error()))
			}
			b.event.Emit("error", final)
		}
		b.endFn(true)
		b.cleanup()
	})
}

// EmitError emits "error" with err to every subscriber, without affecting
// lifecycle state. Used to forward upstream errors to subscribers.
func (b *Base[T]) EmitError(err error) {
	b.event.Emit("error", err)
}

// --- Dual-mode emission (flow vs on-demand) ---

func (b *Base[T]) onNewListener(args ...any) {
	if len(args) == 0 {
		return
	}
	name, _ := args[0].(string)
	if name != "data" {
		return
	}
	b.event.Off(b.newListenerSub)
	sub := b.event.On("readable", b.drain)
	b.drainSub = &sub
	if b.Readable() {
		b.sched.Schedule(func() { b.drain() })
	}
}

// drain is the flow-mode pump: while at least one "data" listener remains
// and Read() yields a value, emit it. When the last "data" listener departs
// (possibly from inside this very loop, as ToArray does on resolution) and
// the iterator is not done, re-arm the newListener watcher so flow mode can
// restart later.
func (b *Base[T]) drain(args ...any) {
	for b.event.ListenerCount("data") > 0 {
		v, ok := b.reader()
		if !ok {
			break
		}
		b.event.Emit("data", v)
	}
	if b.event.ListenerCount("data") == 0 && !b.Done() {
		if b.drainSub != nil {
			b.event.Off(*b.drainSub)
			b.drainSub = nil
		}
		b.newListenerSub = b.event.On("newListener", b.onNewListener)
	}
}

// ForEach subscribes cb to the "data" event, switching the iterator into
// flow mode for as long as cb (or any other data listener) remains
// subscribed.
func (b *Base[T]) ForEach(cb func(T)) {
	b.event.On("data", func(args ...any) {
		if len(args) == 0 {
			return
		}
		v, _ := args[0].(T)
		cb(v)
	})
}

// ToArray subscribes to data/end/error, buffering up to limit items (0 means
// unbounded), and resolves on the returned channel when the limit is
// reached, the iterator ends, or it errors. Listeners are removed before
// resolving.
func (b *Base[T]) ToArray(limit int) <-chan ToArrayResult[T] {
	out := make(chan ToArrayResult[T], 1)
	var items []T
	var dataSub, endSub, errSub event.Subscription
	var once sync.Once

	finish := func(err error) {
		once.Do(func() {
			b.event.Off(dataSub)
			b.event.Off(endSub)
			b.event.Off(errSub)
			out <- ToArrayResult[T]{Items: items, Err: err}
			close(out)
		})
	}

	dataSub = b.event.On("data", func(args ...any) {
		if len(args) == 0 {
			return
		}
		v, _ := args[0].(T)
		items = append(items, v)
		if limit > 0 && len(items) >= limit {
			finish(nil)
		}
	})
	endSub = b.event.On("end", func(args ...any) { finish(nil) })
	errSub = b.event.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		finish(err)
	})

	if b.Done() {
		finish(nil)
	}
	return out
}

// --- Properties ---

// GetProperty returns the current value for name, if set.
func (b *Base[T]) GetProperty(name string) (any, bool) { return b.props.get(name) }

// GetPropertyAsync schedules cb with the current value if name is set;
// otherwise cb is invoked (on the scheduler) the first time name is assigned.
func (b *Base[T]) GetPropertyAsync(name string, cb func(any)) {
	if v, ok := b.props.getWithCallback(name, cb); ok && cb != nil {
		b.sched.Schedule(func() { cb(v) })
	}
}

// SetProperty assigns value to name, scheduling delivery to any pending
// GetPropertyAsync callbacks.
func (b *Base[T]) SetProperty(name string, value any) { b.props.set(name, value) }

// GetProperties returns a snapshot copy of every currently-set property.
func (b *Base[T]) GetProperties() map[string]any { return b.props.snapshot() }

// SetProperties bulk-assigns every key in values.
func (b *Base[T]) SetProperties(values map[string]any) { b.props.setAll(values) }

// CopyProperties copies each named property present on source into this
// iterator's store.
func (b *Base[T]) CopyProperties(source PropertyReader, names []string) {
	for _, name := range names {
		if v, ok := source.GetProperty(name); ok {
			b.SetProperty(name, v)
		}
	}
}

// --- Events ---

// On subscribes fn to the named event.
func (b *Base[T]) On(name string, fn event.Listener) event.Subscription {
	return b.event.On(name, fn)
}

// Off removes a previously registered subscription.
func (b *Base[T]) Off(sub event.Subscription) {
	b.event.Off(sub)
}

// --- Destination ownership ---

func (b *Base[T]) bindDestination(owner any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.claimedBy != nil && b.claimedBy != owner {
		return ErrDestinationClaimed
	}
	b.claimedBy = owner
	return nil
}

func (b *Base[T]) unbindDestination(owner any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.claimedBy == owner {
		b.claimedBy = nil
	}
}
