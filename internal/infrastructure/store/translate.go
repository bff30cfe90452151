package store

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/mesto-api/internal/domain/apperror"
	"github.com/oksasatya/mesto-api/pkg/validation"
)

// Translate maps a persistence error onto the application error taxonomy.
// Checks run in a fixed order: schema validation, cast, duplicate key, not
// found. Anything else becomes an internal error carrying err as its cause.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := apperror.As(err); ok {
		return ae
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.Validation("", validation.ToDetails(verrs))
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return apperror.Validation("", se.Fields)
	}

	var ce *CastError
	if errors.As(err, &ce) {
		return apperror.Cast("", ce.Path)
	}

	var de *DuplicateKeyError
	if errors.As(err, &de) {
		var kv map[string]any
		if de.Key != "" {
			kv = map[string]any{de.Key: de.Value}
		}
		return apperror.DuplicateKey("", kv)
	}

	if errors.Is(err, ErrDocumentNotFound) {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return apperror.NotFound(nf.Error())
		}
		return apperror.NotFound("")
	}

	return apperror.Internal("", err)
}
