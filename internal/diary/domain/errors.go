package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound   = errors.New("diary entry not found")
	ErrUnauthenticated = errors.New("not authenticated")
)

// ValidationError rejects bad input before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SyncError wraps a failure from the document backend. Handlers log it and
// surface a generic failure notice; local state is never rolled back.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
