// Package sqlite provides a SQLite-backed conversation store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/azziedev/promptrelay/pkg/conversation"
)

// Store implements conversation.Store using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a SQLite-backed store. The dbPath can be a file path or
// ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the conversations table if it doesn't exist. The rowid
// column doubles as the insertion-order tiebreak when timestamps collide.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		thread_id TEXT NOT NULL,
		prompt TEXT NOT NULL,
		response TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		max_tokens INTEGER NOT NULL,
		temperature REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_thread_id ON conversations(thread_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save upserts a turn keyed by id.
func (s *Store) Save(ctx context.Context, turn *conversation.Turn) error {
	if turn == nil {
		return conversation.ErrNilTurn
	}

	query := `
	INSERT INTO conversations (id, thread_id, prompt, response, status, timestamp, max_tokens, temperature)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		response = excluded.response,
		status = excluded.status`

	_, err := s.db.ExecContext(ctx, query,
		turn.ID, turn.ThreadID, turn.Prompt, turn.Response,
		string(turn.Status), turn.Timestamp, turn.MaxTokens, turn.Temperature,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert turn: %w", err)
	}

	return nil
}

// FindByThread returns the thread's turns ordered by timestamp ascending.
func (s *Store) FindByThread(ctx context.Context, threadID string) ([]*conversation.Turn, error) {
	query := `
	SELECT id, thread_id, prompt, response, status, timestamp, max_tokens, temperature
	FROM conversations
	WHERE thread_id = ?
	ORDER BY timestamp ASC, rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query thread: %w", err)
	}
	defer rows.Close()

	return scanTurns(rows)
}

// FindAll returns every stored turn ordered by timestamp ascending.
func (s *Store) FindAll(ctx context.Context) ([]*conversation.Turn, error) {
	query := `
	SELECT id, thread_id, prompt, response, status, timestamp, max_tokens, temperature
	FROM conversations
	ORDER BY timestamp ASC, rowid ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	return scanTurns(rows)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanTurns(rows *sql.Rows) ([]*conversation.Turn, error) {
	turns := make([]*conversation.Turn, 0)

	for rows.Next() {
		var turn conversation.Turn
		var status string

		err := rows.Scan(
			&turn.ID, &turn.ThreadID, &turn.Prompt, &turn.Response,
			&status, &turn.Timestamp, &turn.MaxTokens, &turn.Temperature,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}

		turn.Status = conversation.Status(status)
		turns = append(turns, &turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}

	return turns, nil
}

var _ conversation.Store = (*Store)(nil)
