package iterator

// MapFunc transforms a source value into a destination value. Returning
// ok=false drops the item — it is never emitted or counted as read.
type MapFunc[S, D any] func(v S) (D, bool)

// Map returns an iterator that applies fn to every value read from source,
// dropping any value for which fn returns ok=false. Map is a thin,
// synchronous destination: it performs no buffering of its own and forwards
// state, readable, and error signals verbatim from source.
func Map[S, D any](source AsyncIterator[S], fn MapFunc[S, D]) AsyncIterator[D] {
	b := newBase[D]("Map", nil)
	if source == nil {
		b.changeState(StateOpen, false)
		b.Destroy(ErrNilSource)
		return b
	}
	if err := source.bindDestination(b); err != nil {
		b.changeState(StateOpen, false)
		b.Destroy(err)
		return b
	}

	b.reader = func() (D, bool) {
		for {
			sv, ok := source.Read()
			if !ok {
				// Source drained for now: reset the hint so its next
				// readable signal re-fires ours edge-triggered.
				b.SetReadable(false)
				var zero D
				return zero, false
			}
			dv, keep := fn(sv)
			if keep {
				return dv, true
			}
		}
	}
	b.closeFn = func() {
		if b.changeState(StateClosed, false) {
			source.Close()
		}
	}
	b.destroyFn = func(cause error, done func(error)) {
		source.Destroy(cause)
		done(nil)
	}
	b.endFn = func(destroy bool) {
		source.unbindDestination(b)
	}

	source.On("readable", func(args ...any) { b.SetReadable(true) })
	source.On("end", func(args ...any) { b.changeState(StateEnded, true) })
	source.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		b.Destroy(err)
	})

	b.changeState(StateOpen, false)
	b.SetReadable(source.Readable())
	return b
}
