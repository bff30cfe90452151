package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		err    *Error
		kind   Kind
		status int
	}{
		{Validation("", nil), KindValidation, http.StatusBadRequest},
		{Cast("", "_id"), KindCast, http.StatusBadRequest},
		{DuplicateKey("", map[string]any{"email": "a@b.com"}), KindDuplicateKey, http.StatusConflict},
		{NotAuthorized(""), KindNotAuthorized, http.StatusUnauthorized},
		{Forbidden(""), KindNotAuthorized, http.StatusForbidden},
		{NotFound(""), KindNotFound, http.StatusNotFound},
		{RateLimited(""), KindRateLimited, http.StatusTooManyRequests},
		{Internal("", errors.New("boom")), KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestDefaultMessages(t *testing.T) {
	assert.Equal(t, MsgForbidden, Forbidden("").Message)
	assert.Equal(t, "card not found", NotFound("card not found").Message)
}

func TestDetail(t *testing.T) {
	assert.Nil(t, Validation("", nil).Detail)
	assert.Equal(t, map[string]string{"name": "is required"}, Validation("", map[string]string{"name": "is required"}).Detail)
	assert.Equal(t, map[string]string{"path": "_id"}, Cast("", "_id").Detail)
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	e := Internal("", cause)

	assert.Equal(t, MsgInternalServer, e.Message)
	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Stack(), "connection reset")
}

func TestAsAndFrom(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NotFound("user not found"))

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindCast))

	assert.Nil(t, From(nil))
	assert.Equal(t, KindInternal, From(errors.New("x")).Kind)
	assert.Same(t, got, From(wrapped))
}
