package iterator

// MultiTransformFn maps one source value to a sub-iterator of destination
// values. A nil return is treated as an empty sub-iterator for that value.
type MultiTransformFn[S, D any] func(v S) AsyncIterator[D]

// MultiTransform returns a buffered destination iterator that, for each
// value pulled from source, obtains a sub-iterator via fn and drains it
// completely (in the order its own values arrive) before requesting the
// next source value — a FIFO expansion of one-to-many.
func MultiTransform[S, D any](source AsyncIterator[S], maxBufferSize int, fn MultiTransformFn[S, D]) AsyncIterator[D] {
	return multiTransform(source, maxBufferSize, fn, false)
}

// MultiTransformOptional behaves like MultiTransform except that a source
// value whose sub-iterator yields nothing is passed through itself instead
// of being dropped.
func MultiTransformOptional[T any](source AsyncIterator[T], maxBufferSize int, fn MultiTransformFn[T, T]) AsyncIterator[T] {
	return multiTransform(source, maxBufferSize, fn, true)
}

func multiTransform[S, D any](source AsyncIterator[S], maxBufferSize int, fn MultiTransformFn[S, D], optional bool) AsyncIterator[D] {
	buf := newBuffered[D]("MultiTransform", maxBufferSize)
	if source == nil {
		buf.changeState(StateOpen, false)
		buf.Destroy(ErrNilSource)
		return buf
	}
	if err := source.bindDestination(buf); err != nil {
		buf.changeState(StateOpen, false)
		buf.Destroy(err)
		return buf
	}

	var cur AsyncIterator[D]
	var curItem S
	curPushed := 0

	buf.fillFn = func(push PushFunc[D], done DoneFunc) {
		for {
			if cur != nil {
				dv, ok := cur.Read()
				if ok {
					curPushed++
					push(dv)
					done(nil)
					return
				}
				if cur.Done() {
					if optional && curPushed == 0 {
						if conv, isConv := any(curItem).(D); isConv {
							push(conv)
						}
					}
					cur = nil
					continue
				}
				done(nil)
				return
			}

			sv, ok := source.Read()
			if !ok {
				if source.Done() {
					buf.Close()
				}
				done(nil)
				return
			}
			sub := fn(sv)
			if sub == nil {
				if optional {
					if conv, isConv := any(sv).(D); isConv {
						push(conv)
						done(nil)
						return
					}
				}
				continue
			}
			if err := sub.bindDestination(buf); err != nil {
				done(err)
				return
			}
			sub.On("readable", func(args ...any) { buf.start() })
			sub.On("error", func(args ...any) {
				var e error
				if len(args) > 0 {
					e, _ = args[0].(error)
				}
				buf.Destroy(e)
			})
			cur = sub
			curItem = sv
			curPushed = 0
		}
	}
	buf.destroyFn = func(cause error, done func(error)) {
		if cur != nil {
			cur.Destroy(cause)
		}
		source.Destroy(cause)
		done(nil)
	}
	buf.endFn = func(destroy bool) {
		source.unbindDestination(buf)
	}

	source.On("readable", func(args ...any) { buf.start() })
	// While a sub-iterator is still being drained, fillFn closes the
	// destination once it has finished and the source is done.
	source.On("end", func(args ...any) {
		if cur == nil {
			buf.Close()
		}
	})
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
	return buf
}
