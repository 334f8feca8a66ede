package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

// ErrSchema is returned when a handler file does not match the schema.
var ErrSchema = errors.New("handler file does not match schema")

// FieldError is one schema violation.
type FieldError struct {
	// Field is the dotted path of the offending value, empty for the document root.
	Field   string
	Message string
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// SchemaError lists every violation found in a document.
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return fmt.Sprintf("%s: %s", ErrSchema, strings.Join(parts, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the embedded handler file schema as JSON.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

func handlerSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("handlers.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("handlers.schema.json")
	})
	return compiledSchema, schemaErr
}

// ValidateDocument checks a decoded document against the schema. The document
// is round-tripped through JSON first so YAML and JSON decode to the same types.
func ValidateDocument(doc interface{}) error {
	schema, err := handlerSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to normalize document: %w", err)
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("failed to normalize document: %w", err)
	}

	err = schema.Validate(normalized)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	result := &SchemaError{}
	collectSchemaErrors(verr, result)
	return result
}

// collectSchemaErrors flattens the leaves of a validation error tree.
func collectSchemaErrors(err *jsonschema.ValidationError, result *SchemaError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, FieldError{
			Field:   fieldFromPointer(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, result)
	}
}

// fieldFromPointer turns a JSON pointer into dotted notation.
func fieldFromPointer(path string) string {
	if path == "" || path == "/" {
		return ""
	}
	path = strings.TrimPrefix(path, "/")
	return strings.ReplaceAll(path, "/", ".")
}
