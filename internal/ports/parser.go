package ports

// FieldParser is the externally supplied parsing capability used in project
// mode. It maps one decoded text frame to an ordered list of string fields.
//
// The contract is a pure function: no shared state, invoked synchronously
// from the decode path. Returning an empty list means zero fields, not an
// error. Its internal execution model (scripted, compiled, ...) is opaque to
// the decoder.
type FieldParser interface {
	Parse(text string) []string
}

// FieldParserFunc adapts a plain function to the FieldParser interface.
type FieldParserFunc func(text string) []string

// Parse calls f(text).
func (f FieldParserFunc) Parse(text string) []string { return f(text) }
