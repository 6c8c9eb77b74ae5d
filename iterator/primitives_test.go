package iterator

import "testing"

func drainToSlice[T any](m interface{ Flush() int }, it AsyncIterator[T]) []T {
	var out []T
	it.ForEach(func(v T) { out = append(out, v) })
	for i := 0; i < 1000; i++ {
		if m.Flush() == 0 {
			break
		}
	}
	return out
}

func TestEmptyEndsImmediatelyWithNoData(t *testing.T) {
	m := useManualScheduler(t)
	it := Empty[int]()
	endCount := 0
	dataCount := 0
	it.On("end", func(args ...any) { endCount++ })
	it.On("data", func(args ...any) { dataCount++ })
	for i := 0; i < 10; i++ {
		if m.Flush() == 0 {
			break
		}
	}
	if dataCount != 0 {
		t.Fatalf("expected no data events, got %d", dataCount)
	}
	if endCount != 1 {
		t.Fatalf("expected exactly one end event, got %d", endCount)
	}
}

func TestSingleYieldsOneThenEnds(t *testing.T) {
	m := useManualScheduler(t)
	it := Single(7)
	got := drainToSlice[int](m, it)
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("got %v", got)
	}
	if !it.Done() {
		t.Fatal("expected iterator to be done")
	}
}

func TestFromSliceRoundTrip(t *testing.T) {
	m := useManualScheduler(t)
	xs := []int{1, 2, 3, 4, 5}
	got := drainToSlice[int](m, FromSlice(xs))
	if len(got) != len(xs) {
		t.Fatalf("got %v", got)
	}
	for i := range xs {
		if got[i] != xs[i] {
			t.Fatalf("mismatch at %d: got %v want %v", i, got, xs)
		}
	}
}

func TestRangeBasic(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Range(0, 5, 1))
	want := []int{0, 1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestRangeSingleValue(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Range(0, 1, 0))
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected [0], got %v", got)
	}
}

func TestRangeZeroCountIsEmpty(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Range(5, 0, 1))
	if len(got) != 0 {
		t.Fatalf("expected [], got %v", got)
	}
}

func TestRangeNegativeCountIsEmpty(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Range(1, -1, 1))
	if len(got) != 0 {
		t.Fatalf("expected [], got %v", got)
	}
}

func TestRangeDescending(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Range(5, 3, -1))
	want := []int{5, 4, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestRangeInclusiveSingleton(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, RangeInclusive(0, 0, 0))
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected [0], got %v", got)
	}
}

func TestRangeInclusiveBackwardsBoundsAreEmpty(t *testing.T) {
	m := useManualScheduler(t)
	if got := drainToSlice[int](m, RangeInclusive(5, 1, 1)); len(got) != 0 {
		t.Fatalf("ascending over start>end: got %v", got)
	}
	if got := drainToSlice[int](m, RangeInclusive(1, 5, -1)); len(got) != 0 {
		t.Fatalf("descending over start<end: got %v", got)
	}
}

func TestRangeInclusiveAscendingAndDescending(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, RangeInclusive(1, 5, 0))
	want := []int{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	got = drainToSlice[int](m, RangeInclusive(5, 1, -2))
	want = []int{5, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
