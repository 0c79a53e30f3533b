// Package instrumentation provides OpenTelemetry metrics for dayplan.
//
// Metrics cover the workflow (runs and per-step durations), the task parser,
// Google Calendar operations and bookings. Instrumentation is disabled by
// default; setting DAYPLAN_METRICS_EXPORTER=stdout enables a periodic stdout
// exporter, which is the only exporter a single-user CLI needs. When
// disabled, the Metrics recorder is a no-op and callers do not have to guard
// their record calls.
package instrumentation
