package event

import "testing"

func TestOnEmit(t *testing.T) {
	e := New()
	var got []any
	e.On("data", func(args ...any) { got = append(got, args[0]) })
	e.Emit("data", 1)
	e.Emit("data", 2)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestOnceRemovedAfterFire(t *testing.T) {
	e := New()
	n := 0
	e.Once("end", func(args ...any) { n++ })
	e.Emit("end")
	e.Emit("end")
	if n != 1 {
		t.Fatalf("expected once listener to fire exactly once, fired %d", n)
	}
	if e.ListenerCount("end") != 0 {
		t.Fatalf("expected once listener removed, count=%d", e.ListenerCount("end"))
	}
}

func TestOff(t *testing.T) {
	e := New()
	n := 0
	sub := e.On("readable", func(args ...any) { n++ })
	e.Emit("readable")
	e.Off(sub)
	e.Emit("readable")
	if n != 1 {
		t.Fatalf("expected 1 call after Off, got %d", n)
	}
}

func TestNewListenerMeta(t *testing.T) {
	e := New()
	var seen string
	e.On("newListener", func(args ...any) { seen = args[0].(string) })
	e.On("data", func(args ...any) {})
	if seen != "data" {
		t.Fatalf("expected newListener to fire with 'data', got %q", seen)
	}
}

func TestNewListenerOnlyFiresOnFirstSubscriber(t *testing.T) {
	e := New()
	count := 0
	e.On("newListener", func(args ...any) { count++ })
	e.On("data", func(args ...any) {})
	e.On("data", func(args ...any) {})
	if count != 1 {
		t.Fatalf("expected newListener to fire once for the first 'data' subscriber, fired %d", count)
	}
}

func TestRemoveAll(t *testing.T) {
	e := New()
	n := 0
	e.On("data", func(args ...any) { n++ })
	e.On("end", func(args ...any) { n++ })
	e.RemoveAll("")
	e.Emit("data")
	e.Emit("end")
	if n != 0 {
		t.Fatalf("expected no listeners to fire after RemoveAll, got %d calls", n)
	}
}
