package banner

import (
	"fmt"
)

// StatusError is returned when the server answers with a non-success status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status: %s", e.Status)
}

// SessionError means a search session could not be established, nothing else can be
// fetched for the term after it.
type SessionError struct {
	Term string
	Err  error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("failed to initialize search session for term %s: %v", e.Term, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// FetchError means a catalog page could not be fetched, the whole catalog is discarded.
type FetchError struct {
	Term   string
	Offset int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch catalog page (term %s, offset %d): %v", e.Term, e.Offset, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
