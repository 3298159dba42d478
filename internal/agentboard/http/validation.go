package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// maxBodyBytes bounds request bodies; every body this API accepts is tiny.
const maxBodyBytes = 64 << 10

var (
	rotateKeySchema   = mustLoadSchema("schemas/rotate_key.json")
	createAgentSchema = mustLoadSchema("schemas/create_agent.json")
)

func mustLoadSchema(name string) *gojsonschema.Schema {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("http: read schema %s: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("http: compile schema %s: %v", name, err))
	}
	return schema
}

// ValidationError lists the offending fields of a request body.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) details() map[string]any {
	if len(e.Fields) == 0 {
		return nil
	}
	return map[string]any{"fields": e.Fields}
}

// decodeBody validates the request body against schema and decodes it into
// dst. An empty body is treated as {}. Unknown fields are ignored.
func decodeBody(r *http.Request, schema *gojsonschema.Schema, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return &ValidationError{Message: "Unable to read request body"}
	}
	if len(raw) > maxBodyBytes {
		return &ValidationError{Message: "Request body too large"}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if !json.Valid(raw) {
		return &ValidationError{Message: "Request body must be valid JSON"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		fields := make(map[string]string, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if _, seen := fields[field]; !seen {
				fields[field] = desc.Description()
			}
		}
		return &ValidationError{Message: validationMessage(fields), Fields: fields}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &ValidationError{Message: "Request body does not match the expected shape"}
	}
	return nil
}

func validationMessage(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "Invalid request body: " + strings.Join(names, ", ")
}

func isValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}
