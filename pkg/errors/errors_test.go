package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	inner := NewAppError(ErrNotFound, "workspace not found", nil)
	wrapped := Wrap(inner, "loading workspace")

	assert.Equal(t, ErrNotFound, CodeOf(wrapped))
	assert.True(t, Is(wrapped, inner))
}

func TestWrapPlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrap(New("connection reset"), "querying store")
	assert.Equal(t, ErrInternal, CodeOf(wrapped))

	assert.Nil(t, Wrap(nil, "noop"))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrInternal, http.StatusInternalServerError},
		{ErrNotFound, http.StatusNotFound},
		{ErrInvalidArgument, http.StatusBadRequest},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrUnauthorized, http.StatusForbidden},
		{ErrConflict, http.StatusConflict},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(NewAppError(tt.code, "x", nil)), tt.code)
	}

	// Plain errors and unknown codes fall back to 500.
	assert.Equal(t, http.StatusInternalServerError, StatusOf(New("boom")))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus("BOGUS"))
}
