package scf

import (
	"errors"
	"fmt"
)

// FilterError wraps failures of the public operations with the operation
// that failed and the underlying cause.
type FilterError struct {
	Op      string // operation that failed ("insert", "deserialize", ...)
	Message string // what went wrong
	Cause   error  // underlying error, if any
}

func (e *FilterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scf %s failed: %s (caused by: %v)", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("scf %s failed: %s", e.Op, e.Message)
}

func (e *FilterError) Unwrap() error { return e.Cause }

var (
	// ErrDeserializeInvalid marks truncated, corrupt, or dimensionally
	// impossible serialized filters. No partial filter is ever built.
	ErrDeserializeInvalid = errors.New("serialized filter is invalid")

	// ErrGrowthInsertFailed marks an insert rejected even by a fresh
	// sub-filter. It indicates a configuration bug, not a full filter.
	ErrGrowthInsertFailed = errors.New("insert failed after filter growth")

	// ErrConfigInvalid marks a rejected filter configuration.
	ErrConfigInvalid = errors.New("filter configuration is invalid")
)

func invalidData(format string, args ...any) error {
	return &FilterError{Op: "deserialize", Message: fmt.Sprintf(format, args...), Cause: ErrDeserializeInvalid}
}

func invalidConfig(format string, args ...any) error {
	return &FilterError{Op: "config", Message: fmt.Sprintf(format, args...), Cause: ErrConfigInvalid}
}
