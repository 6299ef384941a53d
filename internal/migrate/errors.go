package migrate

import (
	"errors"
	"fmt"
)

// Error represents a failure detected during reconciliation.
//
// Failures include:
//   - Backend error: the storage backend rejected an operation
//   - I/O error: the migrations directory or a file could not be read
//   - Checksum mismatch: an already-applied file was edited on disk
//   - Read file: a file's bytes are not valid UTF-8 text
//   - Duplicate name: two catalog entries share the same file name
//
// Error includes structured fields for diagnostics; every kind aborts the
// reconciliation run immediately.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Name identifies the affected migration file, when known.
	Name string

	// Expected is the checksum recorded in the control table
	// (checksum mismatch only).
	Expected string

	// Found is the checksum computed from the file on disk
	// (checksum mismatch only).
	Found string

	// Err is the underlying cause, preserved for errors.Is/As chains.
	Err error
}

// ErrorCode categorizes reconciliation errors.
type ErrorCode string

const (
	// ErrCodeBackend indicates a failure originating from the storage
	// backend (connection loss, SQL execution failure, constraint
	// violation). The backend cause is wrapped, never retried.
	ErrCodeBackend ErrorCode = "BACKEND_ERROR"

	// ErrCodeIO indicates the migrations directory or an individual file
	// could not be read.
	ErrCodeIO ErrorCode = "IO_ERROR"

	// ErrCodeChecksumMismatch indicates an already-applied file's content
	// no longer matches the checksum recorded when it was applied.
	ErrCodeChecksumMismatch ErrorCode = "CHECKSUM_MISMATCH"

	// ErrCodeReadFile indicates a migration file's bytes could not be
	// decoded as UTF-8 text.
	ErrCodeReadFile ErrorCode = "READ_FILE"

	// ErrCodeDuplicateName indicates two catalog entries share a file name.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Code == ErrCodeChecksumMismatch:
		return fmt.Sprintf("%s: checksum mismatch for migration %s. Expected %s, found %s",
			e.Code, e.Name, e.Expected, e.Found)
	case e.Name != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s (name=%s): %v", e.Code, e.Message, e.Name, e.Err)
	case e.Name != "":
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsChecksumMismatch returns true if the error is a checksum mismatch.
// Uses errors.As to handle wrapped errors.
func IsChecksumMismatch(err error) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == ErrCodeChecksumMismatch
	}
	return false
}

// IsBackendError returns true if the error originated from the backend.
// Uses errors.As to handle wrapped errors.
func IsBackendError(err error) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == ErrCodeBackend
	}
	return false
}

// IsIOError returns true if the error came from reading the migrations
// directory or a file. Uses errors.As to handle wrapped errors.
func IsIOError(err error) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == ErrCodeIO
	}
	return false
}

// NewChecksumMismatchError creates an Error for drift detection: the file
// named name was edited after it was applied. Carries both checksums so an
// operator can diagnose the alteration.
func NewChecksumMismatchError(name, expected, found string) *Error {
	return &Error{
		Code:     ErrCodeChecksumMismatch,
		Message:  "applied migration content changed on disk",
		Name:     name,
		Expected: expected,
		Found:    found,
	}
}

// NewReadFileError creates an Error for a file whose bytes are not valid
// UTF-8 text.
func NewReadFileError(name string) *Error {
	return &Error{
		Code:    ErrCodeReadFile,
		Message: "failed to decode migration file as UTF-8",
		Name:    name,
	}
}

// wrapBackend wraps a backend-originated error. The original cause is
// preserved in the chain with its message intact.
func wrapBackend(message string, err error) *Error {
	return &Error{Code: ErrCodeBackend, Message: message, Err: err}
}

// wrapIO wraps a filesystem error from the catalog.
func wrapIO(message, name string, err error) *Error {
	return &Error{Code: ErrCodeIO, Message: message, Name: name, Err: err}
}
