// Package receiptlog defines the append-only audit trail of printed receipts.
//
// The external sales service is the system of record for sales; this log only
// answers "what did this counter actually print, and when": enough to replay
// a lost receipt or reconcile the till at closing, and to jump from a receipt
// row to the distributed trace via the trace_id field.
package receiptlog

import "time"

// Receipt is the business payload of one log row.
type Receipt struct {
	// SaleID is the external sales service identifier.
	SaleID string

	// TableNumber is the free-form table label carried on the sale.
	TableNumber string

	// PaymentMethod is the method the sale was closed with.
	PaymentMethod string

	// Total is the amount printed on the receipt.
	Total float64

	// Items is the JSON-serialised line items as printed.
	Items string

	// IssuedAt is when the receipt was produced.
	IssuedAt time.Time
}

// Entry is a single row in the receipts table: the receipt plus the tracing
// identifiers of the finalize request that produced it.
type Entry struct {
	Receipt

	// TraceID is the W3C trace ID extracted from the active OpenTelemetry
	// span when the entry was written. Empty when no span was active.
	TraceID string

	// SpanID pinpoints the exact finalize call within the trace.
	SpanID string
}
