package journal

import "context"

// Repository is the port for persisting journal entries. The runner
// depends on this abstraction rather than on SQLite directly, so the
// implementation can be swapped for Postgres, in-memory (tests), etc.
type Repository interface {
	// Save appends a row. The journal is append-only, never an upsert.
	Save(ctx context.Context, entry *Entry) error

	// Latest returns the most recent entry for the given id.
	Latest(ctx context.Context, txnID string) (*Entry, error)
}
