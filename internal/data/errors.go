package data

import "fmt"

// SchemaError reports an input whose columns do not match the expected
// layout.
type SchemaError struct {
	Path   string
	Line   int
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Detail)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Detail)
}

func withPath(err error, path string) error {
	if se, ok := err.(*SchemaError); ok {
		se.Path = path
		return se
	}
	return fmt.Errorf("%s: %w", path, err)
}
