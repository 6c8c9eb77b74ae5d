// Package pipeline provides a blocking, context-aware pull iterator and a
// small set of lazy stream operators over it.
//
// It is the synchronous counterpart to the event-driven iterator package:
// pipeline.Iterator is the "host iterator" shape the iterator package adapts
// in both directions (iterator.WrapHostIterator, iterator.ToHostIterator), and
// the time-based operators here (Batch, Debounce, Throttle, TumblingWindow)
// are the place for wall-clock behavior, which the cooperative iterator
// runtime deliberately has none of.
//
//	p := pipeline.FromSlice(urls)
//	p2 := pipeline.Map(p, fetch)
//	batches := pipeline.Batch(p2, 10, time.Second)
//	err := pipeline.ForEach(ctx, batches, store)
//
// Pipelines are lazy: nothing runs until Collect, Drain, ForEach, or Iter
// pulls values. Each operator pulls from its upstream one value at a time
// on the caller's goroutine; only Debounce and TumblingWindow start a helper
// goroutine, so they can select between arrival and timer expiry.
package pipeline
