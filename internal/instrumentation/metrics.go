package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency.
const (
	attrIntent    = "intent"
	attrStep      = "step"
	attrOperation = "operation"
	attrAccount   = "account"
	attrResult    = "result"
)

// Result values for the result attribute.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder.
type Metrics struct {
	// Workflow metrics
	runsTotal    metric.Int64Counter
	stepDuration metric.Float64Histogram

	// Parser metrics
	parserCallsTotal   metric.Int64Counter
	parserCallDuration metric.Float64Histogram

	// Calendar API metrics
	calendarOpsTotal   metric.Int64Counter
	calendarOpDuration metric.Float64Histogram

	// Booking metrics
	bookingsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.runsTotal, err = meter.Int64Counter(
		"workflow_runs_total",
		metric.WithDescription("Total number of workflow runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	m.stepDuration, err = meter.Float64Histogram(
		"workflow_step_duration_seconds",
		metric.WithDescription("Workflow step duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, err
	}

	m.parserCallsTotal, err = meter.Int64Counter(
		"parser_calls_total",
		metric.WithDescription("Total number of task parser calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	m.parserCallDuration, err = meter.Float64Histogram(
		"parser_call_duration_seconds",
		metric.WithDescription("Task parser call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, err
	}

	m.calendarOpsTotal, err = meter.Int64Counter(
		"calendar_operations_total",
		metric.WithDescription("Total number of calendar store operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	m.calendarOpDuration, err = meter.Float64Histogram(
		"calendar_operation_duration_seconds",
		metric.WithDescription("Calendar store operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, err
	}

	m.bookingsTotal, err = meter.Int64Counter(
		"bookings_total",
		metric.WithDescription("Total number of booking attempts"),
		metric.WithUnit("{booking}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func resultFor(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// RecordRun records a completed workflow run with its classified intent.
func (m *Metrics) RecordRun(ctx context.Context, intent string, err error) {
	if m == nil || m.runsTotal == nil {
		return // Instrumentation not initialized
	}
	m.runsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrIntent, intent),
		attribute.String(attrResult, resultFor(err)),
	))
}

// RecordStep records the duration of a single workflow step.
func (m *Metrics) RecordStep(ctx context.Context, step string, duration time.Duration, err error) {
	if m == nil || m.stepDuration == nil {
		return
	}
	m.stepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrStep, step),
		attribute.String(attrResult, resultFor(err)),
	))
}

// RecordParserCall records one task parser invocation.
func (m *Metrics) RecordParserCall(ctx context.Context, duration time.Duration, err error) {
	if m == nil || m.parserCallsTotal == nil || m.parserCallDuration == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrResult, resultFor(err)))
	m.parserCallsTotal.Add(ctx, 1, attrs)
	m.parserCallDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCalendarOp records one calendar store operation (list, search, insert)
// against a specific account.
func (m *Metrics) RecordCalendarOp(ctx context.Context, operation, account string, duration time.Duration, err error) {
	if m == nil || m.calendarOpsTotal == nil || m.calendarOpDuration == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrAccount, account),
		attribute.String(attrResult, resultFor(err)),
	)
	m.calendarOpsTotal.Add(ctx, 1, attrs)
	m.calendarOpDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordBooking records one booking attempt from the confirmation form.
func (m *Metrics) RecordBooking(ctx context.Context, account string, err error) {
	if m == nil || m.bookingsTotal == nil {
		return
	}
	m.bookingsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrAccount, account),
		attribute.String(attrResult, resultFor(err)),
	))
}
