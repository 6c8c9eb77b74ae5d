package queue

import "testing"

func TestPushShiftOrder(t *testing.T) {
	q := New[int]()
	for i := 1; i <= 3; i++ {
		q.Push(i)
	}
	if q.Length() != 3 {
		t.Fatalf("expected length 3, got %d", q.Length())
	}
	for i := 1; i <= 3; i++ {
		v, ok := q.Shift()
		if !ok || v != i {
			t.Fatalf("expected %d, got %v ok=%v", i, v, ok)
		}
	}
	if !q.Empty() {
		t.Fatal("expected queue to be empty")
	}
	if _, ok := q.Shift(); ok {
		t.Fatal("expected Shift on empty queue to return ok=false")
	}
}

func TestFirstDoesNotRemove(t *testing.T) {
	q := New[string]()
	q.Push("a")
	q.Push("b")
	v, ok := q.First()
	if !ok || v != "a" {
		t.Fatalf("expected a, got %v", v)
	}
	if q.Length() != 2 {
		t.Fatalf("First must not remove, length=%d", q.Length())
	}
}

func TestClear(t *testing.T) {
	q := New[int]()
	q.Push(1)
	q.Push(2)
	q.Clear()
	if !q.Empty() || q.Length() != 0 {
		t.Fatal("expected empty queue after Clear")
	}
	q.Push(3)
	v, ok := q.Shift()
	if !ok || v != 3 {
		t.Fatalf("queue unusable after Clear, got %v", v)
	}
}
