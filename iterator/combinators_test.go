package iterator

import "testing"

func assertSlice[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestFilterKeepsMatching(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Filter(FromSlice([]int{1, 2, 3, 4, 5, 6}), func(v int) bool { return v%2 == 0 }))
	assertSlice(t, got, []int{2, 4, 6})
}

func TestUniqDropsDuplicates(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Uniq[int, int](FromSlice([]int{1, 2, 1, 3, 2, 4}), nil))
	assertSlice(t, got, []int{1, 2, 3, 4})
}

func TestUniqByKey(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[string](m, Uniq(FromSlice([]string{"aa", "ab", "ba", "ac"}), func(s string) byte { return s[0] }))
	assertSlice(t, got, []string{"aa", "ba"})
}

func TestSkipTakeComposeLikeSlicing(t *testing.T) {
	m := useManualScheduler(t)
	xs := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	got := drainToSlice[int](m, Take(Skip(FromSlice(xs), 3), 4))
	assertSlice(t, got, xs[3:7])
}

func TestSkipZeroIsIdentity(t *testing.T) {
	m := useManualScheduler(t)
	src := FromSlice([]int{1, 2})
	if Skip(src, 0) != src {
		t.Fatal("expected Skip(src, 0) to return src unchanged")
	}
	got := drainToSlice[int](m, src)
	assertSlice(t, got, []int{1, 2})
}

func TestTakeZeroYieldsNothingAndClosesSource(t *testing.T) {
	m := useManualScheduler(t)
	src := FromSlice([]int{1, 2, 3})
	got := drainToSlice[int](m, Take(src, 0))
	if len(got) != 0 {
		t.Fatalf("expected no values, got %v", got)
	}
	if !src.Closed() {
		t.Fatal("expected the source to be closed")
	}
}

func TestSliceWindow(t *testing.T) {
	m := useManualScheduler(t)
	xs := []int{10, 20, 30, 40, 50}
	got := drainToSlice[int](m, Slice(FromSlice(xs), 1, 3))
	assertSlice(t, got, []int{20, 30})
}

func TestSurroundEmitsPreSourcePost(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Surround(FromSlice([]int{2, 3}), []int{1}, []int{4, 5}))
	assertSlice(t, got, []int{1, 2, 3, 4, 5})
}

func TestPrependOnly(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Prepend(FromSlice([]int{3}), []int{1, 2}))
	assertSlice(t, got, []int{1, 2, 3})
}

func TestAppendAfterEmptySource(t *testing.T) {
	m := useManualScheduler(t)
	got := drainToSlice[int](m, Append(Empty[int](), []int{9}))
	assertSlice(t, got, []int{9})
}

func TestOptionalTransformPassesOriginalsThrough(t *testing.T) {
	m := useManualScheduler(t)
	it := SimpleTransform(FromSlice([]int{1, 2, 3}), SimpleTransformOptions[int, int]{
		Optional:  true,
		Transform: func(v int, push PushFunc[int]) {},
	})
	got := drainToSlice[int](m, it)
	assertSlice(t, got, []int{1, 2, 3})
}

func TestOptionalTransformKeepsActualPushes(t *testing.T) {
	m := useManualScheduler(t)
	it := SimpleTransform(FromSlice([]int{1, 2, 3}), SimpleTransformOptions[int, int]{
		Optional: true,
		Transform: func(v int, push PushFunc[int]) {
			if v%2 == 0 {
				push(v * 10)
			}
		},
	})
	got := drainToSlice[int](m, it)
	assertSlice(t, got, []int{1, 20, 3})
}

func TestTransformStageMayPushSeveralPerItem(t *testing.T) {
	m := useManualScheduler(t)
	it := SimpleTransform(FromSlice([]int{1, 2}), SimpleTransformOptions[int, int]{
		Transform: func(v int, push PushFunc[int]) {
			push(v)
			push(-v)
		},
	})
	got := drainToSlice[int](m, it)
	assertSlice(t, got, []int{1, -1, 2, -2})
}

func TestTransformStageLimitCountsPushes(t *testing.T) {
	m := useManualScheduler(t)
	it := SimpleTransform(FromSlice([]int{1, 2, 3}), SimpleTransformOptions[int, int]{
		Limit: 3,
		Transform: func(v int, push PushFunc[int]) {
			push(v)
			push(-v)
		},
	})
	got := drainToSlice[int](m, it)
	assertSlice(t, got, []int{1, -1, 2})
}

func TestMultiTransformOptionalPassThrough(t *testing.T) {
	m := useManualScheduler(t)
	it := MultiTransformOptional(FromSlice([]int{1, 2, 3}), 4, func(v int) AsyncIterator[int] {
		if v == 2 {
			return FromSlice([]int{20, 21})
		}
		return Empty[int]()
	})
	got := drainToSlice[int](m, it)
	assertSlice(t, got, []int{1, 20, 21, 3})
}
