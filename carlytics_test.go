package carlytics_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/abtech/carlytics"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := carlytics.Errorf(carlytics.ENOTFOUND, "source %q not found", "test")

	assert.Equal(t, carlytics.ENOTFOUND, carlytics.ErrorCode(err))
	assert.Equal(t, "source \"test\" not found", carlytics.ErrorMessage(err))
}

func TestWrapErrorf(t *testing.T) {
	t.Parallel()

	err := carlytics.WrapErrorf(context.DeadlineExceeded, carlytics.EFETCH, "fetch %s", "https://example.com")

	assert.Equal(t, carlytics.EFETCH, carlytics.ErrorCode(err))
	assert.Equal(t, "fetch https://example.com", carlytics.ErrorMessage(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestErrorCode_WrappedApplicationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", carlytics.Errorf(carlytics.ECONFLICT, "busy"))

	assert.Equal(t, carlytics.ECONFLICT, carlytics.ErrorCode(err))
	assert.Equal(t, "busy", carlytics.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, carlytics.EINTERNAL, carlytics.ErrorCode(err))
	assert.Equal(t, "Internal error", carlytics.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, carlytics.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, carlytics.ErrorMessage(nil))
}
