package utils

import (
	"errors"
	"fmt"
	"strings"
)

var ErrorRecordNotFound = errors.New("record not found")

var ErrorRunNotFound = errors.New("reconciliation run not found")

// SchemaError is fatal for a pipeline run: the uploaded extract does not
// match the expected layout. No partial report may be produced.
type SchemaError struct {
	Sheet   string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("claim extract sheet %q: missing required columns: %s", e.Sheet, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("claim extract sheet %q: %s", e.Sheet, e.Reason)
}

func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
