package checks

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/check.json
var checkSchemaJSON []byte

var (
	schemaOnce    sync.Once
	checkSchema   *gojsonschema.Schema
	checkSchemaEr error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		checkSchema, checkSchemaEr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(checkSchemaJSON))
	})
	return checkSchema, checkSchemaEr
}

// Schema returns the raw JSON schema every check document is validated against.
func Schema() []byte {
	return checkSchemaJSON
}

// validateDocument validates one decoded document and returns every
// violation combined, or nil.
func validateDocument(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("invalid check schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	combined := &multierror.Error{ErrorFormat: listFormat}
	for _, verr := range result.Errors() {
		combined = multierror.Append(combined, errors.New(verr.String()))
	}
	return combined.ErrorOrNil()
}

// listFormat renders combined errors on one line separated by semicolons.
func listFormat(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	s := fmt.Sprintf("%d errors: ", len(errs))
	for i, err := range errs {
		if i > 0 {
			s += "; "
		}
		s += err.Error()
	}
	return s
}
