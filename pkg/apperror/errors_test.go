package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusAppErrorCodeWins(t *testing.T) {
	err := New(http.StatusUnsupportedMediaType, "bad media", nil)
	assert.Equal(t, http.StatusUnsupportedMediaType, MapErrorToStatus(err))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, http.StatusUnsupportedMediaType, MapErrorToStatus(wrapped))
}

func TestMapErrorToStatusSentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, MapErrorToStatus(ErrNotFound))
	assert.Equal(t, http.StatusUnauthorized, MapErrorToStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatus(ErrBadRequest))
	assert.Equal(t, http.StatusUnprocessableEntity, MapErrorToStatus(ErrUnprocessable))
	assert.Equal(t, http.StatusUnsupportedMediaType, MapErrorToStatus(ErrUnsupportedMedia))
	assert.Equal(t, http.StatusInternalServerError, MapErrorToStatus(errors.New("disk on fire")))
}

func TestMessageHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "Something went wrong", Message(errors.New("pq: connection refused")))
	assert.Equal(t, "Template with provided id not found", Message(New(http.StatusNotFound, "Template with provided id not found", nil)))
}
