package store

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mesto-api/internal/domain/apperror"
	"github.com/oksasatya/mesto-api/internal/domain/entity"
)

func translate(t *testing.T, err error) *apperror.Error {
	t.Helper()
	got := Translate(err)
	require.Error(t, got)
	ae, ok := apperror.As(got)
	require.True(t, ok, "want *apperror.Error, got %T", got)
	return ae
}

func TestTranslate_Nil(t *testing.T) {
	assert.NoError(t, Translate(nil))
}

func TestTranslate_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   apperror.Kind
		status int
		msg    string
	}{
		{"schema", &SchemaError{Fields: map[string]string{"name": "is required"}}, apperror.KindValidation, http.StatusBadRequest, apperror.MsgValidation},
		{"cast", &CastError{Path: "_id", Value: "42"}, apperror.KindCast, http.StatusBadRequest, apperror.MsgCast},
		{"duplicate", &DuplicateKeyError{Key: "email", Value: "a@b.com"}, apperror.KindDuplicateKey, http.StatusConflict, apperror.MsgDuplicateKey},
		{"not found", NotFound("card"), apperror.KindNotFound, http.StatusNotFound, "card not found"},
		{"bare not found", ErrDocumentNotFound, apperror.KindNotFound, http.StatusNotFound, apperror.MsgNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", NotFound("user")), apperror.KindNotFound, http.StatusNotFound, "user not found"},
		{"unknown", errors.New("connection refused"), apperror.KindInternal, http.StatusInternalServerError, apperror.MsgInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := translate(t, tt.err)
			assert.Equal(t, tt.kind, ae.Kind)
			assert.Equal(t, tt.status, ae.Status)
			assert.Equal(t, tt.msg, ae.Message)
		})
	}
}

func TestTranslate_Detail(t *testing.T) {
	assert.Equal(t, map[string]string{"path": "_id"}, translate(t, &CastError{Path: "_id"}).Detail)
	assert.Equal(t, map[string]any{"email": "a@b.com"}, translate(t, &DuplicateKeyError{Key: "email", Value: "a@b.com"}).Detail)
}

func TestTranslate_Order(t *testing.T) {
	schemaOverCast := &SchemaError{Fields: map[string]string{"x": "bad"}, Err: &CastError{Path: "x"}}
	assert.Equal(t, apperror.KindValidation, translate(t, schemaOverCast).Kind)

	dupOverMissing := &DuplicateKeyError{Key: "email", Err: ErrDocumentNotFound}
	assert.Equal(t, apperror.KindDuplicateKey, translate(t, dupOverMissing).Kind)

	castOverMissing := &CastError{Path: "_id", Err: NotFound("card")}
	assert.Equal(t, apperror.KindCast, translate(t, castOverMissing).Kind)
}

func TestTranslate_InternalKeepsCauseHidden(t *testing.T) {
	cause := errors.New("pq: password authentication failed for user admin")
	ae := translate(t, cause)

	assert.NotContains(t, ae.Message, "password")
	assert.ErrorIs(t, ae, cause)
}

func TestTranslate_PassesApplicationErrors(t *testing.T) {
	in := apperror.Forbidden("")
	assert.Same(t, in, Translate(in))
}

func TestTranslate_ValidatorErrors(t *testing.T) {
	err := Validate(&entity.Card{Name: "x", Link: "nope"})
	ae := translate(t, err)

	assert.Equal(t, apperror.KindValidation, ae.Kind)
	assert.Equal(t, map[string]string{
		"name":  "must be 2 to 30 characters long",
		"link":  "must be a valid URL",
		"owner": "is required",
	}, ae.Detail)
}
