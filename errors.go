package avrocheck

import (
	"fmt"
	"strings"
)

// ParseError indicates malformed JSON or a document that does not have the shape of a schema.
type ParseError struct {
	Message  string
	Location string
}

func (e *ParseError) Error() string {
	if e == nil {
		return "parse error"
	}
	if e.Location == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// DuplicateTypeError indicates two named types with the same fullname.
type DuplicateTypeError struct {
	Name     string
	Location string
}

func (e *DuplicateTypeError) Error() string {
	if e == nil {
		return "duplicate type"
	}
	return fmt.Sprintf("%s: type %q is already defined", pathOrRoot(e.Location), e.Name)
}

// UnresolvedReferenceError indicates a type name that matches no named type in the document.
type UnresolvedReferenceError struct {
	Name     string
	Location string
}

func (e *UnresolvedReferenceError) Error() string {
	if e == nil {
		return "unresolved reference"
	}
	return fmt.Sprintf("%s: unknown type %q", pathOrRoot(e.Location), e.Name)
}

// ValidationError is one structural rule violation found by Validate.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", pathOrRoot(e.Path), e.Message)
}

// InvalidSchemaError is a deterministic, multi-problem error built from a ValidationResult.
type InvalidSchemaError struct {
	Problems []ValidationError
}

func (e *InvalidSchemaError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "invalid schema"
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Error())
	}
	return "invalid schema: " + strings.Join(parts, "; ")
}
