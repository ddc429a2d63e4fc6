// Package journal defines the durable audit trail for compensable
// writes. Every state transition a write goes through is appended as an
// immutable row, which serves two purposes:
//
//  1. Observability: the journal shows exactly where a write is (or
//     was) and the trace_id column correlates it with the distributed
//     trace for the request.
//
//  2. Recovery: after a crash, the latest row per id tells an operator
//     whether a write completed, failed cleanly, or needs manual
//     attention (e.g. a compensation that itself failed).
package journal

import "time"

// Status is the lifecycle state of one journalled write.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single row in the journal.
type Entry struct {
	// TxnID identifies the logical write. It is the order id, so
	// journal rows can be joined with business data.
	TxnID string

	// Status is the lifecycle state at the time this row was written.
	Status Status

	// CurrentStep names the step that just executed or failed.
	CurrentStep string

	// Payload is the JSON-serialised input. Written once on the
	// STARTED row, empty afterwards.
	Payload string

	// ErrorMessages accumulates failure details as a JSON array of
	// strings, one per failed step or failed compensation.
	ErrorMessages string

	// TraceID is the W3C trace id from the OpenTelemetry span active
	// when the row was written. Empty when no span is active.
	TraceID string

	// SpanID pinpoints the exact span within the trace.
	SpanID string

	// UpdatedAt is the wall-clock time of this row.
	UpdatedAt time.Time
}
