package observable

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const batchSpanName = "observable.batch"

// batchWindow is the trace span covering one open batch window.
type batchWindow struct {
	span trace.Span
}

func (b *Batchable) beginWindow(name string) {
	spanName := batchSpanName
	if name != "" {
		spanName = batchSpanName + " " + name
	}

	attrs := []attribute.KeyValue{
		attribute.String("observable.type", b.typeName),
	}
	if name != "" {
		attrs = append(attrs, attribute.String("observable.batch_name", name))
	}

	_, span := b.tracer.Start(
		context.Background(),
		spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)
	b.state.window = &batchWindow{span: span}
}

func (b *Batchable) endWindow(suppressed int) {
	w := b.state.window
	if w == nil {
		return
	}
	b.state.window = nil

	w.span.SetAttributes(
		attribute.Int("observable.suppressed", suppressed),
		attribute.Bool("observable.override_lock", b.state.overrideLock),
	)
	w.span.SetStatus(codes.Ok, "")
	w.span.End()
}

// recordWindowError attaches a rejected transition to the open window, if
// any. A rejected EndUpdates has no window to attach to.
func (b *Batchable) recordWindowError(err error) {
	if w := b.state.window; w != nil {
		w.span.RecordError(err)
	}
}
