package ml

import "fmt"

// ParseError reports a date field inside a record that is not YYYY-MM-DD.
type ParseError struct {
	ID    int64
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record %d: cannot parse %s %q as YYYY-MM-DD", e.ID, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// KeyConflictError reports an id that appears more than once in a batch.
type KeyConflictError struct {
	ID int64
}

func (e *KeyConflictError) Error() string {
	return fmt.Sprintf("duplicate record id %d in batch", e.ID)
}

// ModelUnavailableError wraps any failure to load the model artifact.
type ModelUnavailableError struct {
	ModelType string
	Path      string
	Err       error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model %s at %s unavailable: %v", e.ModelType, e.Path, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}
