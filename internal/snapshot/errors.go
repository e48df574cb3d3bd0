package snapshot

import "fmt"

// ErrInvalidSnapshot indicates the snapshot document is malformed: it is
// not parseable, or does not match the schema or the record rules.
type ErrInvalidSnapshot struct {
	Source string
	Err    error
}

func (e *ErrInvalidSnapshot) Error() string {
	return fmt.Sprintf("invalid snapshot from %s: %v", e.Source, e.Err)
}

func (e *ErrInvalidSnapshot) Unwrap() error { return e.Err }

// ErrSourceUnavailable indicates the snapshot could not be fetched at all.
type ErrSourceUnavailable struct {
	Source string
	Err    error
}

func (e *ErrSourceUnavailable) Error() string {
	return fmt.Sprintf("snapshot source %s unavailable: %v", e.Source, e.Err)
}

func (e *ErrSourceUnavailable) Unwrap() error { return e.Err }
