package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized    = errors.New("not authenticated")
	ErrTooManyRequests = errors.New("too many requests")
	ErrNotFound        = errors.New("not found")
)

// ValidationError rejects caller input before any side effect happens.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// InconsistencyError means a stored post references an author the identity
// provider no longer knows. The whole read fails; no partial feed is returned.
type InconsistencyError struct {
	PostID   uint
	AuthorID string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("author %q for post %d not found", e.AuthorID, e.PostID)
}
