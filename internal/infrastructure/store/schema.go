package store

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/mesto-api/pkg/validation"
)

var (
	schemaOnce sync.Once
	schema     *validator.Validate
)

// Validate checks a document against its `validate` struct tags before it is
// written. Violations come back as *SchemaError.
func Validate(doc any) error {
	schemaOnce.Do(func() { schema = validation.New() })
	err := schema.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &SchemaError{Fields: validation.ToDetails(verrs), Err: err}
	}
	return err
}
