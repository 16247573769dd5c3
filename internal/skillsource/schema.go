package skillsource

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
)

//go:embed schemas/jobs.schema.json
var jobsSchema []byte

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

func (ve *ValidationError) Unwrap() error {
	return appErr.ErrInvalid
}

func validateJobs(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(jobsSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate jobs: %w: %w", appErr.ErrInvalid, err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}
