package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("save lesson: %w", New("store unavailable", http.StatusServiceUnavailable, ErrUnavailable, cause))

	assert.True(t, Is(err, ErrUnavailable))
	assert.False(t, Is(err, ErrInternal))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusServiceUnavailable, Status(err, http.StatusInternalServerError))
	assert.Equal(t, http.StatusTeapot, Status(cause, http.StatusTeapot))
	assert.Contains(t, err.Error(), "connection reset")
}
