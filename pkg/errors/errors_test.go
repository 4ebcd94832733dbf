package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("tutor", nil), http.StatusNotFound},
		{"bad request", BadRequest("weight must be positive", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized("", nil), http.StatusUnauthorized},
		{"forbidden", Forbidden("nope"), http.StatusForbidden},
		{"conflict", Conflict("taken", nil), http.StatusConflict},
		{"internal", Internal(stderrors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrappedErrorsKeepTheirCode(t *testing.T) {
	err := fmt.Errorf("failed to get appointment: %w", NotFound("appointment", nil))

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))
	assert.Equal(t, ErrNotFound, CodeOf(err))

	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, "appointment not found", appErr.Message)
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrInternal, CodeOf(stderrors.New("plain")))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Conflict("e-mail already in use", stderrors.New("duplicate key"))
	assert.Equal(t, "e-mail already in use: duplicate key", err.Error())
	assert.Equal(t, "unauthorized", Unauthorized("", nil).Error())
}
