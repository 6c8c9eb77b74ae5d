package iterator

// Filter returns an iterator yielding only the values of source for which
// pred returns true.
func Filter[T any](source AsyncIterator[T], pred func(T) bool) AsyncIterator[T] {
	return Map(source, func(v T) (T, bool) {
		return v, pred(v)
	})
}

// Uniq returns an iterator that drops any value whose key has already been
// seen. With nil key, the values themselves must be comparable and are used
// directly.
func Uniq[T any, K comparable](source AsyncIterator[T], key func(T) K) AsyncIterator[T] {
	seen := make(map[K]struct{})
	return Map(source, func(v T) (T, bool) {
		var k K
		if key != nil {
			k = key(v)
		} else {
			k, _ = any(v).(K)
		}
		if _, dup := seen[k]; dup {
			return v, false
		}
		seen[k] = struct{}{}
		return v, true
	})
}

// Skip returns an iterator yielding everything after the first n values of
// source. n <= 0 skips nothing.
func Skip[T any](source AsyncIterator[T], n int) AsyncIterator[T] {
	if n <= 0 {
		return source
	}
	return SimpleTransform(source, SimpleTransformOptions[T, T]{Offset: n})
}

// Take returns an iterator yielding at most the first n values of source,
// then closing (and closing source). n <= 0 yields nothing.
func Take[T any](source AsyncIterator[T], n int) AsyncIterator[T] {
	if n <= 0 {
		source.Close()
		return Empty[T]()
	}
	return SimpleTransform(source, SimpleTransformOptions[T, T]{Limit: n})
}

// Slice returns the values of source at positions [start, end), mirroring
// slice indexing: Slice(it, 2, 5) yields the third through fifth values.
// end <= start yields nothing.
func Slice[T any](source AsyncIterator[T], start, end int) AsyncIterator[T] {
	if start < 0 {
		start = 0
	}
	if end <= start {
		source.Close()
		return Empty[T]()
	}
	return SimpleTransform(source, SimpleTransformOptions[T, T]{
		Offset: start,
		Limit:  end - start,
	})
}

// Prepend returns an iterator yielding items before any value of source.
func Prepend[T any](source AsyncIterator[T], items []T) AsyncIterator[T] {
	return SimpleTransform(source, SimpleTransformOptions[T, T]{Prepend: items})
}

// Append returns an iterator yielding items after source is exhausted.
func Append[T any](source AsyncIterator[T], items []T) AsyncIterator[T] {
	return SimpleTransform(source, SimpleTransformOptions[T, T]{Append: items})
}

// Surround combines Prepend and Append in one destination: pre, then every
// value of source, then post.
func Surround[T any](source AsyncIterator[T], pre, post []T) AsyncIterator[T] {
	return SimpleTransform(source, SimpleTransformOptions[T, T]{
		Prepend: pre,
		Append:  post,
	})
}
