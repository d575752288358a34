package service

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound  = errors.New("entry not found")
	ErrEntryNotLoaded = errors.New("entry is not in the loaded leaderboard")
)

// ValidationError is returned before any store call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FetchError means the leaderboard could not be listed. The previously
// loaded snapshot is left untouched.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch leaderboard: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type WriteError struct {
	Op  string
	ID  string
	Err error
}

func (e *WriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s entry %s: %v", e.Op, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
