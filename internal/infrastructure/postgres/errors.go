package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

// SQLSTATE codes the repositories map onto store errors.
const (
	codeUniqueViolation     = "23505"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

// uniqueKeys maps unique index names to the document field they guard.
var uniqueKeys = map[string]string{
	"users_email_key": "email",
	"users_pkey":      "_id",
	"cards_pkey":      "_id",
}

// normalize converts pgx errors into the store error types. value is
// reported with duplicate-key and cast errors.
func normalize(err error, resource string, value any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.NotFound(resource)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		key, ok := uniqueKeys[pgErr.ConstraintName]
		if !ok {
			key = pgErr.ConstraintName
		}
		return &store.DuplicateKeyError{Key: key, Value: value, Err: err}
	case codeInvalidText:
		s, _ := value.(string)
		return &store.CastError{Path: "_id", Value: s, Err: err}
	case codeNotNullViolation:
		return &store.SchemaError{Fields: map[string]string{fieldName(pgErr.ColumnName): "is required"}, Err: err}
	case codeCheckViolation:
		return &store.SchemaError{Fields: map[string]string{checkField(pgErr.TableName, pgErr.ConstraintName): "is invalid"}, Err: err}
	case codeForeignKeyViolation:
		return &store.SchemaError{Fields: map[string]string{"owner": "does not exist"}, Err: err}
	}
	return err
}

// checkField turns a default check constraint name such as users_name_check
// into the column it guards.
func checkField(table, constraint string) string {
	f := strings.TrimSuffix(constraint, "_check")
	f = strings.TrimPrefix(f, table+"_")
	return fieldName(f)
}

func fieldName(column string) string {
	switch column {
	case "id":
		return "_id"
	case "password_hash":
		return "password"
	case "created_at":
		return "createdAt"
	case "":
		return "payload"
	}
	return column
}
