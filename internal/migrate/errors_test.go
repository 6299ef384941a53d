package migrate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumMismatchError_Message(t *testing.T) {
	err := NewChecksumMismatchError("0001_init.sql", "aaa", "bbb")

	// The message must name the file and both checksums so an operator can
	// diagnose which already-applied script was altered.
	assert.Equal(t,
		"CHECKSUM_MISMATCH: checksum mismatch for migration 0001_init.sql. Expected aaa, found bbb",
		err.Error())
}

func TestReadFileError_Message(t *testing.T) {
	err := NewReadFileError("0002_bad.sql")
	assert.Contains(t, err.Error(), "READ_FILE")
	assert.Contains(t, err.Error(), "0002_bad.sql")
}

func TestError_UnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := wrapBackend("failed to apply migration", cause)

	assert.True(t, errors.Is(err, cause))
	// The backend cause's message stays visible in the wrapper.
	assert.Contains(t, err.Error(), "connection refused")
}

func TestErrorPredicates(t *testing.T) {
	backendErr := wrapBackend("boom", errors.New("db down"))
	ioErr := wrapIO("read failed", "0001_a.sql", errors.New("permission denied"))
	mismatchErr := NewChecksumMismatchError("0001_a.sql", "x", "y")

	assert.True(t, IsBackendError(backendErr))
	assert.False(t, IsBackendError(ioErr))

	assert.True(t, IsIOError(ioErr))
	assert.False(t, IsIOError(mismatchErr))

	assert.True(t, IsChecksumMismatch(mismatchErr))
	assert.False(t, IsChecksumMismatch(backendErr))
}

func TestErrorPredicates_WrappedErrors(t *testing.T) {
	inner := NewChecksumMismatchError("0003_c.sql", "x", "y")
	wrapped := fmt.Errorf("run failed: %w", inner)

	assert.True(t, IsChecksumMismatch(wrapped))
	assert.False(t, IsChecksumMismatch(errors.New("unrelated")))
	assert.False(t, IsChecksumMismatch(nil))
}
