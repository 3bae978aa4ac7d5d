package observable

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp
}

func TestBatchWindowSpan(t *testing.T) {
	sr, tp := newRecordingTracer()
	vm := newTestBatchableViewModel(WithTracer(tp.Tracer("test")))

	err := vm.BatchNamed("bulk-load", func() {
		vm.SetName("a")
		vm.SetID(1)
	})
	if err != nil {
		t.Fatalf("BatchNamed() error = %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	span := spans[0]
	if span.Name() != "observable.batch bulk-load" {
		t.Errorf("span name = %q", span.Name())
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", span.Status().Code)
	}

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs["observable.suppressed"].AsInt64(); got != 2 {
		t.Errorf("observable.suppressed = %d, want 2", got)
	}
	if got := attrs["observable.type"].AsString(); got != "*observable.testBatchableViewModel" {
		t.Errorf("observable.type = %q", got)
	}
	if got := attrs["observable.batch_name"].AsString(); got != "bulk-load" {
		t.Errorf("observable.batch_name = %q", got)
	}
}

func TestBatchWindowSpanRecordsRejectedBegin(t *testing.T) {
	sr, tp := newRecordingTracer()
	vm := newTestBatchableViewModel(WithTracer(tp.Tracer("test")))

	_ = vm.BeginUpdates()
	_ = vm.BeginUpdates()
	_ = vm.EndUpdates()

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name() != batchSpanName {
		t.Errorf("span name = %q, want %q", spans[0].Name(), batchSpanName)
	}

	events := spans[0].Events()
	if len(events) != 1 || events[0].Name != "exception" {
		t.Errorf("expected one exception event, got %+v", events)
	}
}

func TestRejectedEndOpensNoSpan(t *testing.T) {
	sr, tp := newRecordingTracer()
	vm := newTestBatchableViewModel(WithTracer(tp.Tracer("test")))

	_ = vm.EndUpdates()

	if n := len(sr.Started()); n != 0 {
		t.Errorf("started %d spans, want 0", n)
	}
}
