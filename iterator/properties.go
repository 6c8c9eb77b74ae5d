package iterator

import (
	"sync"

	"github.com/kbukum/flowio/scheduler"
)

// propertyStore maps string names to opaque values, plus a queue of
// one-argument callbacks per name awaiting first assignment. It is the
// iterator's out-of-band side channel (e.g. for a transform to publish
// "total expected items" before the consumer has read any of them): a
// plain key/value scratchpad generalized with pending-callback delivery,
// since an async iterator's consumer may ask for a property before the
// producer has set it.
type propertyStore struct {
	mu        sync.Mutex
	values    map[string]any
	listeners map[string][]func(any)
	sched     scheduler.Scheduler
}

func newPropertyStore(sched scheduler.Scheduler) *propertyStore {
	return &propertyStore{
		values:    make(map[string]any),
		listeners: make(map[string][]func(any)),
		sched:     sched,
	}
}

// get returns the current value for name, if any has been set.
func (p *propertyStore) get(name string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[name]
	return v, ok
}

// getWithCallback returns the current value if set; otherwise queues cb to
// be scheduled with the value the first time name is set.
func (p *propertyStore) getWithCallback(name string, cb func(any)) (any, bool) {
	p.mu.Lock()
	v, ok := p.values[name]
	if ok || cb == nil {
		p.mu.Unlock()
		return v, ok
	}
	p.listeners[name] = append(p.listeners[name], cb)
	p.mu.Unlock()
	return nil, false
}

// set stores value under name and schedules delivery of every pending
// callback registered for name, then clears them.
func (p *propertyStore) set(name string, value any) {
	p.mu.Lock()
	p.values[name] = value
	pending := p.listeners[name]
	delete(p.listeners, name)
	p.mu.Unlock()

	for _, cb := range pending {
		cb := cb
		p.sched.Schedule(func() { cb(value) })
	}
}

// snapshot returns a shallow copy of every currently-set property.
func (p *propertyStore) snapshot() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// setAll bulk-assigns every key in values.
func (p *propertyStore) setAll(values map[string]any) {
	for k, v := range values {
		p.set(k, v)
	}
}

// release drops every stored value and pending callback, called on _end.
func (p *propertyStore) release() {
	p.mu.Lock()
	p.values = make(map[string]any)
	p.listeners = make(map[string][]func(any))
	p.mu.Unlock()
}
