package ingest

import (
	"fmt"
	"strings"
)

// SchemaError is returned when the input file is missing expected columns.
// The run cannot proceed without the schema it expects, so this is fatal.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input file is missing required columns: %s",
		strings.Join(e.Missing, ", "))
}
