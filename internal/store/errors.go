package store

import "fmt"

// NotFoundError reports a missing inventory file or an unknown product.
type NotFoundError struct {
	Path      string
	ProductID int
}

func (e *NotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("inventory file not found: %s", e.Path)
	}
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// SchemaError reports a malformed inventory file: a missing column or a
// value that fails type coercion.
type SchemaError struct {
	Line int // 1-based, 0 when the header itself is wrong
	Msg  string
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("inventory schema error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("inventory schema error: %s", e.Msg)
}

// ValidationError reports a record that would violate an invariant.
type ValidationError struct {
	ProductID int
	Field     string
	Msg       string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record %d: %s %s", e.ProductID, e.Field, e.Msg)
}
