package iterator

import "testing"

// countingBuffered builds a Buffered[int] whose fillFn pushes values 1..n
// one at a time, one per fill invocation, so tests can observe the read
// lock's one-operation-at-a-time behavior across scheduler ticks.
func countingBuffered(n, maxBufferSize int) *Buffered[int] {
	buf := newBuffered[int]("Counting", maxBufferSize)
	next := 1
	buf.fillFn = func(push PushFunc[int], done DoneFunc) {
		if next <= n {
			push(next)
			next++
		}
		done(nil)
		if next > n {
			buf.Close()
		}
	}
	buf.changeState(StateOpen, false)
	buf.SetReadable(true)
	return buf
}

func TestBufferedNormalizeMaxBufferSize(t *testing.T) {
	cases := map[int]int{0: 4, -5: 1, 1: 1, 10: 10}
	for in, want := range cases {
		if got := normalizeMaxBufferSize(in); got != want {
			t.Fatalf("normalizeMaxBufferSize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestBufferedDrainsAllThenEnds(t *testing.T) {
	m := useManualScheduler(t)
	buf := countingBuffered(5, 2)

	var got []int
	buf.ForEach(func(v int) { got = append(got, v) })
	for i := 0; i < 1000; i++ {
		if m.Flush() == 0 {
			break
		}
	}

	if len(got) != 5 {
		t.Fatalf("got %v", got)
	}
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("got %v", got)
		}
	}
	if !buf.Done() {
		t.Fatal("expected buffered iterator to be done")
	}
}

func TestBufferedReadLockSerializesFillCalls(t *testing.T) {
	m := useManualScheduler(t)
	buf := newBuffered[int]("Test", 4)
	inFlight := 0
	maxInFlight := 0
	calls := 0
	buf.fillFn = func(push PushFunc[int], done DoneFunc) {
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		calls++
		if calls <= 3 {
			push(calls)
		} else {
			buf.Close()
		}
		inFlight--
		done(nil)
	}
	buf.changeState(StateOpen, false)
	buf.SetReadable(true)

	var got []int
	buf.ForEach(func(v int) { got = append(got, v) })
	for i := 0; i < 1000; i++ {
		if m.Flush() == 0 {
			break
		}
	}

	if maxInFlight > 1 {
		t.Fatalf("expected at most one in-flight fill at a time, saw %d", maxInFlight)
	}
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestBufferedCloseWhileItemsQueuedStillDeliversThem(t *testing.T) {
	m := useManualScheduler(t)
	buf := newBuffered[int]("Test", 10)
	buf.beginFn = func(push PushFunc[int], done DoneFunc) {
		push(1)
		push(2)
		push(3)
		done(nil)
	}
	buf.changeState(StateOpen, false)
	buf.SetReadable(true)

	// Force begin to run and populate the buffer before requesting close, so
	// this exercises "close with items already queued" rather than "close
	// before the producer ever started".
	buf.Read()
	m.Flush()
	if buf.BufferLength() != 3 {
		t.Fatalf("expected begin to have queued 3 items, got %d", buf.BufferLength())
	}

	var got []int
	buf.ForEach(func(v int) { got = append(got, v) })
	buf.Close()
	for i := 0; i < 1000; i++ {
		if m.Flush() == 0 {
			break
		}
	}

	if len(got) != 3 {
		t.Fatalf("expected all 3 queued items delivered despite early close, got %v", got)
	}
	if !buf.Done() {
		t.Fatal("expected iterator to be done after draining")
	}
}

func TestBufferedAppendViaFlush(t *testing.T) {
	m := useManualScheduler(t)
	buf := newBuffered[int]("Test", 10)
	buf.flushFn = func(push PushFunc[int], done DoneFunc) {
		push(99)
		done(nil)
	}
	buf.changeState(StateOpen, false)

	var got []int
	buf.ForEach(func(v int) { got = append(got, v) })
	buf.Close()
	for i := 0; i < 1000; i++ {
		if m.Flush() == 0 {
			break
		}
	}

	if len(got) != 1 || got[0] != 99 {
		t.Fatalf("expected flush-appended value to be delivered, got %v", got)
	}
}
