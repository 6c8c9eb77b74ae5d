package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StreamContext carries the observability identity of one running stream:
// which pipeline it belongs to, which stage within that pipeline, and the
// instruments its operations record into.
type StreamContext struct {
	PipelineName string
	StageName    string
	IteratorID   string
	StartTime    time.Time
	Instruments  *StreamInstruments
}

// NewStreamContext creates a stream context. If instruments is nil, metric
// recording is silently skipped.
func NewStreamContext(pipelineName, stageName, iteratorID string, instruments *StreamInstruments) *StreamContext {
	return &StreamContext{
		PipelineName: pipelineName,
		StageName:    stageName,
		IteratorID:   iteratorID,
		StartTime:    time.Now(),
		Instruments:  instruments,
	}
}

type streamContextKey struct{}

// WithStreamContext stores a StreamContext in the context.
func WithStreamContext(ctx context.Context, sc *StreamContext) context.Context {
	return context.WithValue(ctx, streamContextKey{}, sc)
}

// StreamContextFromContext retrieves the StreamContext from context, or nil.
func StreamContextFromContext(ctx context.Context) *StreamContext {
	if sc, ok := ctx.Value(streamContextKey{}).(*StreamContext); ok {
		return sc
	}
	return nil
}

// Attributes returns the identifying attributes for spans and metrics
// recorded under this stream.
func (sc *StreamContext) Attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrPipelineName, sc.PipelineName),
		attribute.String(AttrStageName, sc.StageName),
	}
	if sc.IteratorID != "" {
		attrs = append(attrs, attribute.String(AttrIteratorID, sc.IteratorID))
	}
	return attrs
}

// StartSpanForStream starts a traced span tagged with the stream's identity.
func (sc *StreamContext) StartSpanForStream(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(sc.Attributes()...)
	return ctx, span
}

// EndStreamOperation ends the span, recording status, duration, and any
// error, and counts the error on the stream's instruments.
func (sc *StreamContext) EndStreamOperation(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(sc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		if sc.Instruments != nil {
			sc.Instruments.RecordError(ctx, sc.Attributes()...)
		}
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()
}

// Duration returns the elapsed time since the stream context was created.
func (sc *StreamContext) Duration() time.Duration {
	return time.Since(sc.StartTime)
}
