// Package inmemory provides a map-backed conversation store used for tests
// and dashboard-only deployments with no durability requirement.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/azziedev/promptrelay/pkg/conversation"
)

type row struct {
	turn *conversation.Turn

	// seq is the insertion order, used to break timestamp ties. An upsert
	// keeps the original seq so re-saving a turn never reorders a thread.
	seq uint64
}

// Store implements conversation.Store using an in-memory map.
type Store struct {
	mu   sync.RWMutex
	rows map[string]row
	next uint64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		rows: make(map[string]row),
	}
}

// Save upserts a turn keyed by ID. A copy is stored so callers can keep
// mutating their turn without racing readers.
func (s *Store) Save(_ context.Context, turn *conversation.Turn) error {
	if turn == nil {
		return conversation.ErrNilTurn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *turn

	if existing, ok := s.rows[turn.ID]; ok {
		s.rows[turn.ID] = row{turn: &copied, seq: existing.seq}
		return nil
	}

	s.rows[turn.ID] = row{turn: &copied, seq: s.next}
	s.next++

	return nil
}

// FindByThread returns the thread's turns ordered by timestamp ascending.
func (s *Store) FindByThread(_ context.Context, threadID string) ([]*conversation.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]row, 0)
	for _, r := range s.rows {
		if r.turn.ThreadID == threadID {
			matched = append(matched, r)
		}
	}

	return sortedTurns(matched), nil
}

// FindAll returns every stored turn ordered by timestamp ascending.
func (s *Store) FindAll(_ context.Context) ([]*conversation.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]row, 0, len(s.rows))
	for _, r := range s.rows {
		all = append(all, r)
	}

	return sortedTurns(all), nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func sortedTurns(rows []row) []*conversation.Turn {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].turn.Timestamp.Equal(rows[j].turn.Timestamp) {
			return rows[i].seq < rows[j].seq
		}
		return rows[i].turn.Timestamp.Before(rows[j].turn.Timestamp)
	})

	turns := make([]*conversation.Turn, len(rows))
	for i, r := range rows {
		copied := *r.turn
		turns[i] = &copied
	}

	return turns
}

var _ conversation.Store = (*Store)(nil)
