package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mesto-api/internal/domain/apperror"
	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

func TestNormalize(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		err := normalize(fmt.Errorf("scan: %w", pgx.ErrNoRows), "card", "x")
		assert.ErrorIs(t, err, store.ErrDocumentNotFound)
		assert.EqualError(t, err, "card not found")
	})

	t.Run("unique email", func(t *testing.T) {
		err := normalize(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_email_key"}, "user", "a@b.com")
		var dup *store.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Key)
		assert.Equal(t, "a@b.com", dup.Value)
	})

	t.Run("invalid uuid text", func(t *testing.T) {
		err := normalize(&pgconn.PgError{Code: codeInvalidText}, "card", "zzz")
		var ce *store.CastError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "zzz", ce.Value)
	})

	t.Run("check constraint", func(t *testing.T) {
		err := normalize(&pgconn.PgError{Code: codeCheckViolation, TableName: "users", ConstraintName: "users_about_check"}, "user", nil)
		var se *store.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, map[string]string{"about": "is invalid"}, se.Fields)
	})

	t.Run("not null", func(t *testing.T) {
		err := normalize(&pgconn.PgError{Code: codeNotNullViolation, ColumnName: "password_hash"}, "user", nil)
		var se *store.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Contains(t, se.Fields, "password")
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("conn reset")
		assert.Same(t, boom, normalize(boom, "user", nil))
		assert.NoError(t, normalize(nil, "user", nil))
	})
}

func TestNormalize_TranslatesToAPIErrors(t *testing.T) {
	tests := []struct {
		err  error
		kind apperror.Kind
	}{
		{pgx.ErrNoRows, apperror.KindNotFound},
		{&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_email_key"}, apperror.KindDuplicateKey},
		{&pgconn.PgError{Code: codeInvalidText}, apperror.KindCast},
		{&pgconn.PgError{Code: codeForeignKeyViolation}, apperror.KindValidation},
		{&pgconn.PgError{Code: "53300"}, apperror.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			ae := store.Translate(normalize(tt.err, "user", "v"))
			assert.Equal(t, tt.kind, apperror.From(ae).Kind)
		})
	}
}
