package iterator

import "testing"

func TestUnionInterleavesSourcesRoundRobin(t *testing.T) {
	m := useManualScheduler(t)
	a := FromSlice([]int{1, 2, 3})
	b := FromSlice([]int{10, 20})
	u := Union[int]([]AsyncIterator[int]{a, b}, 4)

	got := drainToSlice[int](m, u)
	want := []int{1, 10, 2, 20, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if !u.Done() {
		t.Fatal("expected union to be done once every source is exhausted")
	}
}

func TestUnionEmptySourcesEndsImmediately(t *testing.T) {
	m := useManualScheduler(t)
	u := Union[int](nil, 4)
	got := drainToSlice[int](m, u)
	if len(got) != 0 {
		t.Fatalf("expected no values, got %v", got)
	}
	if !u.Done() {
		t.Fatal("expected an empty union to end immediately")
	}
}

func TestUnionAddAfterConstruction(t *testing.T) {
	m := useManualScheduler(t)
	a := FromSlice([]int{1})
	u := Union[int]([]AsyncIterator[int]{a}, 4)

	b := FromSlice([]int{2, 3})
	if err := u.Add(b); err != nil {
		t.Fatalf("unexpected error adding source: %v", err)
	}

	got := drainToSlice[int](m, u)
	if len(got) != 3 {
		t.Fatalf("expected all 3 values across both sources, got %v", got)
	}
}

func TestUnionAddRejectsNilSource(t *testing.T) {
	useManualScheduler(t)
	u := Union[int](nil, 4)
	if err := u.Add(nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
}

func TestUnionAddAfterDoneIsNoOp(t *testing.T) {
	m := useManualScheduler(t)
	u := Union[int](nil, 4)
	u.ForEach(func(v int) {})
	for i := 0; i < 10; i++ {
		if m.Flush() == 0 {
			break
		}
	}
	if !u.Done() {
		t.Fatal("expected empty union to already be done")
	}
	if err := u.Add(FromSlice([]int{1})); err != nil {
		t.Fatalf("expected Add on a done union to report no error, got %v", err)
	}
}

func TestUnionPropagatesSourceError(t *testing.T) {
	useManualScheduler(t)
	a := newBase[int]("Test", nil)
	a.changeState(StateOpen, false)
	u := Union[int]([]AsyncIterator[int]{a}, 4)

	var gotErr error
	u.On("error", func(args ...any) { gotErr, _ = args[0].(error) })

	cause := ErrInvalidSource
	a.Destroy(cause)

	if gotErr != cause {
		t.Fatalf("expected union to observe source's error, got %v", gotErr)
	}
	if !u.Destroyed() {
		t.Fatal("expected union to be destroyed when a source errors")
	}
}

func TestUnionAddRejectsSourceAlreadyClaimedBySomeoneElse(t *testing.T) {
	useManualScheduler(t)
	a := FromSlice([]int{1, 2, 3})
	_ = Transform[int, int](a, 4, func(v int, push PushFunc[int]) bool { push(v); return false })

	u := Union[int](nil, 4)
	if err := u.Add(a); err == nil {
		t.Fatal("expected Add to reject a source already bound to another destination")
	}
}
