package iterator

// Empty returns an iterator that yields nothing and ends on its first read.
func Empty[T any]() AsyncIterator[T] {
	b := newBase[T]("Empty", nil)
	b.reader = func() (T, bool) {
		var zero T
		b.changeState(StateEnded, true)
		return zero, false
	}
	b.changeState(StateOpen, false)
	b.SetReadable(true)
	return b
}

// Single returns an iterator yielding exactly one value, then ending.
func Single[T any](v T) AsyncIterator[T] {
	b := newBase[T]("Single", nil)
	delivered := false
	b.reader = func() (T, bool) {
		if delivered {
			var zero T
			return zero, false
		}
		delivered = true
		b.changeState(StateEnded, true)
		return v, true
	}
	b.changeState(StateOpen, false)
	b.SetReadable(true)
	return b
}

// FromSlice returns an iterator yielding each element of items in order.
func FromSlice[T any](items []T) AsyncIterator[T] {
	b := newBase[T]("Array", nil)
	idx := 0
	b.reader = func() (T, bool) {
		if idx >= len(items) {
			var zero T
			b.changeState(StateEnded, true)
			return zero, false
		}
		v := items[idx]
		idx++
		if idx >= len(items) {
			b.changeState(StateEnded, true)
		}
		return v, true
	}
	b.changeState(StateOpen, false)
	b.SetReadable(true)
	return b
}

// RangeInclusive returns an iterator over the integers from start through
// end inclusive, advancing by step (defaulting to +1 or -1 to match the
// direction of travel when 0). A start already past end in step's direction
// yields nothing: RangeInclusive(5, 1, 1) and RangeInclusive(1, 5, -1) are
// both empty, while RangeInclusive(0, 0, 1) yields exactly [0].
func RangeInclusive(start, end, step int) AsyncIterator[int] {
	if step == 0 {
		if end < start {
			step = -1
		} else {
			step = 1
		}
	}
	var count int
	switch {
	case step > 0 && start > end:
		count = 0
	case step < 0 && start < end:
		count = 0
	default:
		count = (end-start)/step + 1
	}
	return Range(start, count, step)
}

// Range returns an iterator over the integers starting at start, stepping by
// step, for count values. step defaults to 1 when 0. count <= 0 yields
// nothing. A negative step with count > 0 still yields count values,
// descending.
func Range(start, count, step int) AsyncIterator[int] {
	if step == 0 {
		step = 1
	}
	b := newBase[int]("Range", nil)
	emitted := 0
	cur := start
	b.reader = func() (int, bool) {
		if count <= 0 || emitted >= count {
			b.changeState(StateEnded, true)
			return 0, false
		}
		v := cur
		cur += step
		emitted++
		if emitted >= count {
			b.changeState(StateEnded, true)
		}
		return v, true
	}
	b.changeState(StateOpen, false)
	b.SetReadable(true)
	return b
}
