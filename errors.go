package shelfserve

import (
	"errors"
	"fmt"
)

var (
	// ErrBadToken is returned when an archive path token cannot be decoded
	ErrBadToken = errors.New("bad archive token")
	// ErrResourceNotFound is returned when an inner path does not resolve
	// to a resource inside the archive
	ErrResourceNotFound = errors.New("resource not found")
	// ErrNoContent is returned when an archive has neither a table of
	// contents nor a spine
	ErrNoContent = errors.New("no contents found in the epub file")
	// ErrUnauthorized is returned when credential verification fails
	ErrUnauthorized = errors.New("unauthorized")
)

// OpenError reports a failure to read or parse an archive. The failure is
// deterministic (a corrupt file stays corrupt), so callers must not retry.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("reading/parsing epub [%s] failed: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }
