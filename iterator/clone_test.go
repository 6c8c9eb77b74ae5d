package iterator

import "testing"

func TestCloneIteratorsShareHistoryInLockstep(t *testing.T) {
	m := useManualScheduler(t)
	src := FromSlice([]int{1, 2, 3})
	clonable := NewClonable[int](src)
	c1 := clonable.Clone()
	c2 := clonable.Clone()

	got1 := drainToSlice[int](m, c1)
	got2 := drainToSlice[int](m, c2)

	want := []int{1, 2, 3}
	for i := range want {
		if got1[i] != want[i] || got2[i] != want[i] {
			t.Fatalf("got1=%v got2=%v want=%v", got1, got2, want)
		}
	}
	if !c1.Done() || !c2.Done() {
		t.Fatal("expected both clones to end once the shared source is exhausted")
	}
}

func TestCloneIteratorsReadAtDifferentPaces(t *testing.T) {
	m := useManualScheduler(t)
	src := FromSlice([]int{1, 2, 3})
	clonable := NewClonable[int](src)
	c1 := clonable.Clone()
	c2 := clonable.Clone()

	var got1 []int
	c1.ForEach(func(v int) { got1 = append(got1, v) })
	for i := 0; i < 1000; i++ {
		if m.Flush() == 0 {
			break
		}
	}
	if len(got1) != 3 {
		t.Fatalf("expected c1 to drain independently of c2, got %v", got1)
	}

	var got2 []int
	c2.ForEach(func(v int) { got2 = append(got2, v) })
	for i := 0; i < 1000; i++ {
		if m.Flush() == 0 {
			break
		}
	}
	if len(got2) != 3 || got2[0] != 1 {
		t.Fatalf("expected c2 to read from the start of the shared history, got %v", got2)
	}
}

func TestCloneIteratorPropertyCascadesToSource(t *testing.T) {
	useManualScheduler(t)
	src := FromSlice([]int{1, 2, 3})
	src.SetProperty("name", "origin")
	clonable := NewClonable[int](src)
	c1 := clonable.Clone()

	if v, ok := c1.GetProperty("name"); !ok || v != "origin" {
		t.Fatalf("expected clone to fall back to source's property, got %v, %v", v, ok)
	}

	c1.SetProperty("name", "clone-local")
	if v, ok := c1.GetProperty("name"); !ok || v != "clone-local" {
		t.Fatalf("expected clone's own property to shadow the source's, got %v, %v", v, ok)
	}
	if v, ok := src.GetProperty("name"); !ok || v != "origin" {
		t.Fatalf("expected source's own property to be untouched by the clone, got %v, %v", v, ok)
	}
}

func TestCloneDestroyOnlyAffectsThatReader(t *testing.T) {
	useManualScheduler(t)
	src := FromSlice([]int{1, 2, 3})
	clonable := NewClonable[int](src)
	c1 := clonable.Clone()
	c2 := clonable.Clone()

	c1.Destroy(nil)

	if !c1.Destroyed() {
		t.Fatal("expected c1 to be destroyed")
	}
	if c2.Destroyed() || c2.Done() {
		t.Fatal("expected c2 to be unaffected by c1's destruction")
	}
	if src.Destroyed() || src.Done() {
		t.Fatal("expected the shared source to be unaffected by one clone's destruction")
	}
}

func TestCloneSourceErrorPropagatesToAllClones(t *testing.T) {
	useManualScheduler(t)
	src := newBase[int]("Test", nil)
	src.changeState(StateOpen, false)
	clonable := NewClonable[int](src)
	c1 := clonable.Clone()
	c2 := clonable.Clone()

	cause := ErrInvalidSource
	src.Destroy(cause)

	// A clone only learns about the failure the next time something asks it
	// to read: notify just flags readable, read() is what inspects isEnded().
	c1.Read()
	c2.Read()

	if !c1.Destroyed() || !c2.Destroyed() {
		t.Fatal("expected both clones to be destroyed once the shared source errors")
	}
}
