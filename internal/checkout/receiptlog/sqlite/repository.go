// Package sqlite provides a SQLite-backed implementation of
// receiptlog.Repository.
//
// WAL mode is enabled on Open so readers never block writers: the checkout
// flow appends while the reprint endpoint may be reading.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/pos-counter/internal/checkout/receiptlog"
	"github.com/jcmexdev/pos-counter/internal/domain"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// which keeps Alpine/Docker builds simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only: one
// immutable row per printed receipt, reprints included.
const schema = `
CREATE TABLE IF NOT EXISTS receipts (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,

    -- External sales service identifier. Not UNIQUE: a reprint is a new row.
    sale_id         TEXT        NOT NULL,

    table_number    TEXT        NOT NULL DEFAULT '',
    payment_method  TEXT        NOT NULL,
    total           REAL        NOT NULL,

    -- JSON array of printed line items.
    items           TEXT        NOT NULL DEFAULT '[]',

    -- W3C trace_id / span_id from the finalize request's OTel span.
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    issued_at       TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_receipts_sale_id ON receipts(sale_id, issued_at);
CREATE INDEX IF NOT EXISTS idx_receipts_issued_at ON receipts(issued_at);
`

// Repository is the SQLite implementation of receiptlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path and applies the
// schema.
//
//	repo, err := sqlite.Open("./data/receipts.db")
func Open(path string) (*Repository, error) {
	// WAL enables concurrent readers; busy_timeout waits for locks instead
	// of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends a receipt row. Safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *receiptlog.Entry) error {
	const q = `
		INSERT INTO receipts
			(sale_id, table_number, payment_method, total, items, trace_id, span_id, issued_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.SaleID,
		entry.TableNumber,
		entry.PaymentMethod,
		entry.Total,
		entry.Items,
		entry.TraceID,
		entry.SpanID,
		entry.IssuedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save receipt for sale %q: %w", entry.SaleID, err)
	}
	return nil
}

// LatestForSale returns the most recent receipt printed for a sale, for the
// reprint flow.
func (r *Repository) LatestForSale(ctx context.Context, saleID string) (*receiptlog.Entry, error) {
	const q = `
		SELECT sale_id, table_number, payment_method, total, items,
		       trace_id, span_id, issued_at
		FROM   receipts
		WHERE  sale_id = ?
		ORDER  BY issued_at DESC, id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, saleID)

	var entry receiptlog.Entry
	var issuedAt string
	err := row.Scan(
		&entry.SaleID,
		&entry.TableNumber,
		&entry.PaymentMethod,
		&entry.Total,
		&entry.Items,
		&entry.TraceID,
		&entry.SpanID,
		&issuedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Kind: "receipt", ID: saleID}
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest receipt for %q: %w", saleID, err)
	}

	entry.IssuedAt, err = parseRFC3339(issuedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
