// Package calendar provides the event store dayplan reads from and books
// into.
//
// The Store interface has three operations: list a single day's events for
// one account, search events by text across a rolling window, and insert a
// one-hour event. The production implementation wraps the Google Calendar
// API with per-account OAuth2 authentication; an in-memory implementation
// backs dry runs and tests.
//
// Event start and end values stay in the store's raw ISO-8601 string form
// (a datetime with offset, or a bare date for all-day events). The workflow
// compares and splits these strings directly, so they are not normalized
// here.
package calendar
