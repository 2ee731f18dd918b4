package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WithDetails(t *testing.T) {
	detailed := ErrIndicatorNotFound.WithDetails(map[string]interface{}{"indicator": "noise"})

	assert.Equal(t, "noise", detailed.Details["indicator"])
	assert.Nil(t, ErrIndicatorNotFound.Details)
	assert.Equal(t, http.StatusNotFound, detailed.StatusCode)
	assert.True(t, stderrors.Is(detailed, ErrIndicatorNotFound))
	assert.False(t, stderrors.Is(detailed, ErrInvalidRequest))
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("reload: %w", ErrCacheError.WithMessage("dataset:raw:* delete failed"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "CACHE_ERROR", appErr.Code)
	assert.Equal(t, "dataset:raw:* delete failed", appErr.Message)
	assert.Equal(t, "Cache operation failed", ErrCacheError.Message)

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}
