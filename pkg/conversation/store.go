package conversation

import "context"

// Store is the CRUD contract for conversation turns. Implementations must
// serialize individual row writes; callers perform no multi-row transactions.
type Store interface {
	// Save upserts a turn keyed by its ID. A duplicate delivery with the
	// same ID overwrites the existing row rather than creating a second one.
	Save(ctx context.Context, turn *Turn) error

	// FindByThread returns the thread's turns ordered by timestamp
	// ascending, insertion order breaking ties. Returns an empty slice for
	// an unknown thread.
	FindByThread(ctx context.Context, threadID string) ([]*Turn, error)

	// FindAll returns every stored turn. Consumed by the dashboard.
	FindAll(ctx context.Context) ([]*Turn, error)

	// Close releases any resources held by the store.
	Close() error
}
