// Package observability provides OpenTelemetry tracing and metrics for
// instrumented iterator streams.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-pipeline"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanStreamFill)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-pipeline"))
//	defer mp.Shutdown(ctx)
//
//	ins, err := observability.NewStreamInstruments(observability.Meter("flowio"))
//	ins.RecordPush(ctx, attribute.String(observability.AttrStageName, "parse"))
//
// The iterator package attaches these to buffered iterators via
// iterator.Instrument; nothing here is required for correctness.
package observability
