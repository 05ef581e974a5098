package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Phase is one traced and timed step of the bootstrap.
type Phase struct {
	name    string
	span    trace.Span
	metrics *ContainerMetrics
	start   time.Time
}

// StartPhase opens a span called name on tracer. A nil tracer uses Tracer();
// nil metrics skip recording.
func StartPhase(ctx context.Context, tracer trace.Tracer, metrics *ContainerMetrics, name string, attrs ...attribute.KeyValue) (context.Context, *Phase) {
	if tracer == nil {
		tracer = Tracer()
	}
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Phase{name: name, span: span, metrics: metrics, start: time.Now()}
}

// SetAttributes adds attributes to the phase span.
func (p *Phase) SetAttributes(attrs ...attribute.KeyValue) {
	p.span.SetAttributes(attrs...)
}

// End closes the span, marking it failed when err is non-nil, and records the
// phase duration.
func (p *Phase) End(ctx context.Context, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		p.span.RecordError(err)
		p.span.SetStatus(codes.Error, err.Error())
	}
	p.span.SetAttributes(attribute.String(AttrStatus, status))
	p.span.End()
	p.metrics.RecordPhase(ctx, p.name, status, time.Since(p.start))
}

// Duration returns the time elapsed since the phase started.
func (p *Phase) Duration() time.Duration {
	return time.Since(p.start)
}
