package telemetry

import "errors"

// Schema errors are returned by schema loading and can be checked with
// errors.Is. All of them degrade to the "no schema loaded" state; none is
// fatal.
var (
	// ErrSchemaIO is returned when the schema file cannot be opened or read.
	ErrSchemaIO = errors.New("streamplot: cannot read schema file")

	// ErrSchemaParse is returned when the schema file is not valid JSON.
	ErrSchemaParse = errors.New("streamplot: schema parse error")

	// ErrSchemaStructural is returned when the document parses but does not
	// have the required shape (missing title, empty groups, bad index, ...).
	ErrSchemaStructural = errors.New("streamplot: invalid schema structure")
)
