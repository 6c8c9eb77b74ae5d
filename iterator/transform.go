package iterator

// TransformFn consumes one source value, pushing zero or more destination
// values, and reports whether the transform is now finished (no further
// source values should be pulled — e.g. a limit was reached). Returning
// finished=true still allows whatever was already pushed this call to drain
// normally before the iterator ends.
type TransformFn[S, D any] func(v S, push PushFunc[D]) (finished bool)

// Transform returns a buffered destination iterator that pulls from source
// one value at a time and hands each to fn, which may push any number of
// destination values (zero, one, or more) per source value. It mirrors
// source's readable/end/error signals and propagates Close/Destroy upstream.
func Transform[S, D any](source AsyncIterator[S], maxBufferSize int, fn TransformFn[S, D]) AsyncIterator[D] {
	buf := newBuffered[D]("Transform", maxBufferSize)
	wireTransformSource(buf, source, fn)
	return buf
}

func wireTransformSource[S, D any](buf *Buffered[D], source AsyncIterator[S], fn TransformFn[S, D]) {
	if source == nil {
		buf.changeState(StateOpen, false)
		buf.Destroy(ErrNilSource)
		return
	}
	if err := source.bindDestination(buf); err != nil {
		buf.changeState(StateOpen, false)
		buf.Destroy(err)
		return
	}

	finished := false

	buf.fillFn = func(push PushFunc[D], done DoneFunc) {
		// Keep reading until fn pushes something, the source has nothing
		// available, or fn reports it is finished, so a value that fn drops
		// does not end the fill with nothing to show for it.
		pushed := false
		tracked := func(v D) { pushed = true; push(v) }
		for !finished && !pushed {
			sv, ok := source.Read()
			if !ok {
				break
			}
			if fn(sv, tracked) {
				finished = true
				source.Close()
				buf.Close()
			}
		}
		done(nil)
	}
	buf.destroyFn = func(cause error, done func(error)) {
		source.Destroy(cause)
		done(nil)
	}
	buf.endFn = func(destroy bool) {
		source.unbindDestination(buf)
	}

	source.On("readable", func(args ...any) {
		if !finished {
			buf.start()
		}
	})
	source.On("end", func(args ...any) { buf.Close() })
	source.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		buf.Destroy(err)
	})

	buf.changeState(StateOpen, false)
	if source.Readable() {
		buf.start()
	}
}

// SimpleTransformOptions composes the filter -> offset -> map -> transform
// -> limit pipeline stages, plus values to emit before the source is read
// from (Prepend) and after it is exhausted (Append).
//
// Transform, when set, runs after Map and may push any number of values per
// item. Optional changes what happens when a stage yields nothing: a Map
// returning ok=false, or a Transform pushing zero values, falls back to
// pushing the item itself instead of dropping it (the item must then be
// assignable to D).
type SimpleTransformOptions[S, D any] struct {
	Filter        func(v S) bool
	Offset        int
	Map           func(v S) (D, bool)
	Transform     func(v D, push PushFunc[D])
	Optional      bool
	Limit         int // 0 means unlimited
	Prepend       []D
	Append        []D
	MaxBufferSize int
}

// SimpleTransform builds a Transform from the declarative filter/offset/map/
// limit/prepend/append stages, applied in that order per item. Map defaults to treating S and D as the same type
// when D is S and Map is nil — callers needing an actual conversion must
// supply Map.
func SimpleTransform[S, D any](source AsyncIterator[S], opts SimpleTransformOptions[S, D]) AsyncIterator[D] {
	buf := newBuffered[D]("SimpleTransform", opts.MaxBufferSize)

	skipped := 0
	emitted := 0
	limitReached := opts.Limit < 0 // negative limit: close on first read

	step := func(v S, push PushFunc[D]) bool {
		if opts.Filter != nil && !opts.Filter(v) {
			return false
		}
		if skipped < opts.Offset {
			skipped++
			return false
		}
		// Every emission funnels through countingPush so the limit counts
		// actual pushes, including the several a Transform stage may make
		// for one item, and stops exactly at the boundary.
		countingPush := func(dv D) {
			if opts.Limit > 0 && emitted >= opts.Limit {
				return
			}
			push(dv)
			emitted++
		}
		atLimit := func() bool { return opts.Limit > 0 && emitted >= opts.Limit }

		var dv D
		ok := true
		if opts.Map != nil {
			dv, ok = opts.Map(v)
		} else if conv, isConv := any(v).(D); isConv {
			dv = conv
		} else {
			ok = false
		}
		if !ok {
			if opts.Optional {
				if conv, isConv := any(v).(D); isConv {
					countingPush(conv)
				}
			}
			return atLimit()
		}
		if opts.Transform != nil {
			before := emitted
			opts.Transform(dv, countingPush)
			if opts.Optional && emitted == before {
				countingPush(dv)
			}
		} else {
			countingPush(dv)
		}
		return atLimit()
	}

	if len(opts.Prepend) > 0 {
		buf.beginFn = func(push PushFunc[D], done DoneFunc) {
			for _, v := range opts.Prepend {
				push(v)
			}
			done(nil)
		}
	}
	if len(opts.Append) > 0 {
		buf.flushFn = func(push PushFunc[D], done DoneFunc) {
			for _, v := range opts.Append {
				push(v)
			}
			done(nil)
		}
	}

	wireTransformSource(buf, source, func(v S, push PushFunc[D]) bool {
		if limitReached {
			return true
		}
		stop := step(v, push)
		if stop {
			limitReached = true
		}
		return stop
	})
	return buf
}
