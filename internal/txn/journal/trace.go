package journal

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// NewEntry builds a journal entry with the trace identifiers extracted
// from the OpenTelemetry span active in ctx. If the context carries no
// valid span (e.g. in unit tests), both ids are left empty and the
// entry is still usable.
func NewEntry(
	ctx context.Context,
	txnID string,
	status Status,
	currentStep string,
	payload string,
	errs []string,
) *Entry {
	errJSON := "[]"
	if len(errs) > 0 {
		if b, err := json.Marshal(errs); err == nil {
			errJSON = string(b)
		}
	}

	entry := &Entry{
		TxnID:         txnID,
		Status:        status,
		CurrentStep:   currentStep,
		Payload:       payload,
		ErrorMessages: errJSON,
		UpdatedAt:     time.Now().UTC(),
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}

	return entry
}
