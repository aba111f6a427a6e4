package conversation

import "errors"

// ErrNilTurn is returned by stores when asked to save a nil turn.
var ErrNilTurn = errors.New("cannot save nil turn")

// NotFoundError is returned when a turn doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "turn not found"
	}

	return "turn not found: " + e.ID
}
