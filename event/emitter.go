// Package event provides a small named-event emitter: subscribe/unsubscribe,
// a newListener meta-event, listener counts, and single-shot listeners.
// It is the primitive the iterator runtime's readable/data/end/error signals
// ride on.
//
// Ownership: an Emitter holds strong references to its listeners for as long
// as they're subscribed; callers are responsible for calling Off (or letting
// RemoveAll run, as the base iterator does on _end) to release them.
package event

import "sync"

// Listener receives the arguments passed to Emit for the event it is
// subscribed to.
type Listener func(args ...any)

// Subscription identifies a previously registered Listener so it can be
// removed with Off. Go function values are not comparable, so Subscription
// stands in for the identity a host environment would get for free from
// function-reference equality.
type Subscription struct {
	name string
	id   uint64
}

type registration struct {
	id   uint64
	fn   Listener
	once bool
}

// Emitter is a synchronous, mutex-protected named-event bus.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]*registration
	nextID    uint64
}

// New returns an empty Emitter.
func New() *Emitter {
	return &Emitter{listeners: make(map[string][]*registration)}
}

// On subscribes fn to name and returns a Subscription usable with Off.
// Adding the first listener for an event fires "newListener" with that
// event's name as its single argument, after the listener is installed.
func (e *Emitter) On(name string, fn Listener) Subscription {
	return e.add(name, fn, false)
}

// Once subscribes fn to name; fn is automatically removed after its first
// invocation.
func (e *Emitter) Once(name string, fn Listener) Subscription {
	return e.add(name, fn, true)
}

func (e *Emitter) add(name string, fn Listener, once bool) Subscription {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	wasEmpty := len(e.listeners[name]) == 0
	e.listeners[name] = append(e.listeners[name], &registration{id: id, fn: fn, once: once})
	e.mu.Unlock()

	if wasEmpty && name != "newListener" {
		e.Emit("newListener", name)
	}
	return Subscription{name: name, id: id}
}

// Off removes the listener identified by sub, if still present.
func (e *Emitter) Off(sub Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	regs := e.listeners[sub.name]
	for i, r := range regs {
		if r.id == sub.id {
			e.listeners[sub.name] = append(regs[:i], regs[i+1:]...)
			return
		}
	}
}

// RemoveAll removes every listener for name, or every listener for every
// event if name is empty.
func (e *Emitter) RemoveAll(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if name == "" {
		e.listeners = make(map[string][]*registration)
		return
	}
	delete(e.listeners, name)
}

// ListenerCount returns the number of listeners currently subscribed to
// name.
func (e *Emitter) ListenerCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[name])
}

// Emit synchronously invokes every listener subscribed to name, in
// subscription order, passing args. Once-listeners are removed after they
// run. Emit does not recover panics from listeners — they propagate to the
// caller, so a misbehaving callback surfaces at the scheduler rather than
// being silently swallowed.
func (e *Emitter) Emit(name string, args ...any) {
	e.mu.Lock()
	regs := append([]*registration(nil), e.listeners[name]...)
	e.mu.Unlock()

	if len(regs) == 0 {
		return
	}

	var onceIDs []uint64
	for _, r := range regs {
		r.fn(args...)
		if r.once {
			onceIDs = append(onceIDs, r.id)
		}
	}
	if len(onceIDs) == 0 {
		return
	}
	e.mu.Lock()
	current := e.listeners[name]
	remaining := make([]*registration, 0, len(current))
	for _, r := range current {
		keep := true
		for _, id := range onceIDs {
			if r.id == id {
				keep = false
				break
			}
		}
		if keep {
			remaining = append(remaining, r)
		}
	}
	e.listeners[name] = remaining
	e.mu.Unlock()
}
