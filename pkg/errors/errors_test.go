package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCauseAndCode(t *testing.T) {
	cause := fmt.Errorf("disk gone")
	err := Wrap(cause, ErrInternal, "failed to read catalog")

	assert.Equal(t, "INTERNAL_ERROR", err.Code)
	assert.Equal(t, ExitInternal, err.ExitCode)
	assert.Equal(t, "failed to read catalog: disk gone", err.Error())
	assert.True(t, stdErrors.Is(err, cause))
}

func TestCloneMatchesTemplate(t *testing.T) {
	err := Clone(ErrValidation, "weekPairIndex out of range")

	assert.Equal(t, "weekPairIndex out of range", err.Message)
	assert.True(t, stdErrors.Is(err, ErrValidation))
	assert.False(t, stdErrors.Is(err, ErrNotFound))
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestFromErrorNormalises(t *testing.T) {
	assert.Nil(t, FromError(nil))

	plain := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)

	typed := Clone(ErrNotFound, "catalog missing")
	wrapped := fmt.Errorf("load: %w", typed)
	assert.Same(t, typed, FromError(wrapped))
}
