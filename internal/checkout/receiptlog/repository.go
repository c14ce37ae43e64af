package receiptlog

import "context"

// Repository is the port for persisting receipt entries. The checkout flow
// depends on this abstraction, not on SQLite directly, so tests can use an
// in-memory implementation.
type Repository interface {
	// Save appends a row. The table is an append-only audit log, never an
	// upsert: reprints produce a second row.
	Save(ctx context.Context, entry *Entry) error
}
