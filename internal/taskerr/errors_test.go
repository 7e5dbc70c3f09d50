package taskerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(KindTaskNotFound, "task %s not found", "t1")
	assert.Equal(t, "TaskNotFound: task t1 not found", err.Error())
	assert.Nil(t, err.Cause)
}

func TestWrapPreservesCauseAndUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindStorageError, cause, "persisting task %s", "t1")
	assert.Equal(t, "StorageError: persisting task t1: disk full", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestKindOfUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(KindValidationError, "bad input")
	wrapped := fmt.Errorf("handling request: %w", inner)
	assert.Equal(t, KindValidationError, KindOf(wrapped))
}

func TestKindOfDefaultsToStorageErrorForUnrecognized(t *testing.T) {
	assert.Equal(t, KindStorageError, KindOf(errors.New("boom")))
	assert.Equal(t, KindStorageError, KindOf(nil))
}
