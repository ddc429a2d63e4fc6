// Package sqlite provides a SQLite-backed implementation of
// journal.Repository.
//
// WAL mode is enabled on Open so readers never block the writer: the
// order workflow appends rows while the journal HTTP endpoint may be
// reading them.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopfleet/order-api/internal/txn/journal"

	// Register the pure-Go SQLite driver; no CGO needed, so the binary
	// builds and runs unchanged in Alpine containers.
	_ "modernc.org/sqlite"
)

// The table is append-only: each row is an immutable event in a write's
// lifecycle. The latest row per txn_id gives the current state.
const schema = `
CREATE TABLE IF NOT EXISTS txn_journal (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier: the order id. Not UNIQUE because one row is
    -- written per transition.
    txn_id          TEXT        NOT NULL,

    status          TEXT        NOT NULL,
    current_step    TEXT        NOT NULL DEFAULT '',

    -- JSON payload that started the write. Written once on STARTED.
    payload         TEXT,

    -- JSON array of error strings accumulated during failure/rollback.
    error_messages  TEXT        NOT NULL DEFAULT '[]',

    -- W3C trace_id / span_id from the active OTel span, for jumping
    -- from a journal row to the full distributed trace.
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, the SQLite idiom.
    updated_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_txn_journal_txn_id ON txn_journal(txn_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_txn_journal_trace_id ON txn_journal(trace_id);
`

// Repository is the SQLite implementation of journal.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at the given path and
// applies the schema.
func Open(path string) (*Repository, error) {
	// WAL enables concurrent readers; busy_timeout waits for locks
	// instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends a journal row. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *journal.Entry) error {
	const q = `
		INSERT INTO txn_journal
			(txn_id, status, current_step, payload, error_messages, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.TxnID,
		string(entry.Status),
		entry.CurrentStep,
		nullableString(entry.Payload),
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("journal: save entry for %q: %w", entry.TxnID, err)
	}
	return nil
}

// Latest returns the most recent journal row for a given id. Backs the
// journal HTTP endpoint and post-crash inspection.
func (r *Repository) Latest(ctx context.Context, txnID string) (*journal.Entry, error) {
	const q = `
		SELECT txn_id, status, current_step, COALESCE(payload,''), error_messages,
		       trace_id, span_id, updated_at
		FROM   txn_journal
		WHERE  txn_id = ?
		ORDER  BY updated_at DESC, id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, txnID)

	var entry journal.Entry
	var updatedAt string
	err := row.Scan(
		&entry.TxnID,
		&entry.Status,
		&entry.CurrentStep,
		&entry.Payload,
		&entry.ErrorMessages,
		&entry.TraceID,
		&entry.SpanID,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("journal: no entries for %q", txnID)
	}
	if err != nil {
		return nil, fmt.Errorf("journal: latest for %q: %w", txnID, err)
	}

	entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("journal: parse time %q: %w", updatedAt, err)
	}

	return &entry, nil
}

// nullableString returns nil for empty strings so SQLite stores NULL
// instead of an empty TEXT on non-STARTED rows.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
