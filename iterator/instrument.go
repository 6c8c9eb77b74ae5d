package iterator

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/flowio/observability"
)

// instrumentable is satisfied by every buffered iterator (Transform,
// SimpleTransform, MultiTransform, Union) through *Buffered promotion.
type instrumentable interface {
	instrument(stage string)
}

// Instrument attaches tracing and metrics to a buffered iterator's
// begin/fill/flush operations: each hook invocation becomes a span, each
// pushed item increments the stream items counter, and buffer occupancy is
// recorded when the hook releases the read lock. stage names the pipeline
// position in span and metric attributes. Returns false when it is not a
// buffered iterator (primitives and thin Map destinations have no hooks to
// observe).
func Instrument[T any](it AsyncIterator[T], stage string) bool {
	b, ok := it.(instrumentable)
	if !ok {
		return false
	}
	b.instrument(stage)
	return true
}

func (b *Buffered[T]) instrument(stage string) {
	ins, err := observability.NewStreamInstruments(observability.Meter("flowio"))
	if err != nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("flowio.iterator", b.String()),
		attribute.String("flowio.stage", stage),
	}

	wrap := func(op string, fn func(push PushFunc[T], done DoneFunc)) func(push PushFunc[T], done DoneFunc) {
		if fn == nil {
			return nil
		}
		return func(push PushFunc[T], done DoneFunc) {
			ctx, span := observability.StartSpan(context.Background(), "flowio."+op,
				trace.WithAttributes(attrs...))
			counted := func(v T) {
				ins.RecordPush(ctx, attrs...)
				push(v)
			}
			fn(counted, func(err error) {
				ins.RecordOccupancy(ctx, int64(b.BufferLength()), attrs...)
				if err != nil {
					observability.SetSpanError(ctx, err)
				}
				span.End()
				done(err)
			})
		}
	}

	b.beginFn = wrap("begin", b.beginFn)
	b.fillFn = wrap("fill", b.fillFn)
	b.flushFn = wrap("flush", b.flushFn)
}
