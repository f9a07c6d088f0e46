// Package domain defines core types, interfaces, and errors for the cube engine.
package domain

import "fmt"

// ConflictError indicates a conflict (e.g., duplicate cube registration).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// SchemaError indicates a structurally invalid cube definition.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// QuerySyntaxError indicates query text that does not match the grammar.
type QuerySyntaxError struct {
	Line   int
	Reason string
}

func (e *QuerySyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Reason)
}

// SemanticErrorKind classifies references that fail schema resolution.
type SemanticErrorKind string

const (
	UnknownCube      SemanticErrorKind = "unknown cube"
	UnknownDimension SemanticErrorKind = "unknown dimension"
	UnknownMeasure   SemanticErrorKind = "unknown measure"
	UnknownLevel     SemanticErrorKind = "unknown level"
	UnknownHierarchy SemanticErrorKind = "unknown hierarchy"
)

// SemanticError indicates a syntactically valid reference that does not
// resolve against the cube schema. Identifier carries the offending name
// verbatim; Scope names the enclosing cube or dimension when relevant.
type SemanticError struct {
	Kind       SemanticErrorKind
	Identifier string
	Scope      string
}

func (e *SemanticError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s %q in %q", e.Kind, e.Identifier, e.Scope)
	}
	return fmt.Sprintf("%s %q", e.Kind, e.Identifier)
}

// ExecutionError wraps a warehouse failure (timeout, syntax, connection loss).
type ExecutionError struct {
	Cause error
}

func (e *ExecutionError) Error() string { return fmt.Sprintf("execute query: %v", e.Cause) }

func (e *ExecutionError) Unwrap() error { return e.Cause }

// RefreshError wraps a failure during a cube refresh.
type RefreshError struct {
	Cause error
}

func (e *RefreshError) Error() string { return fmt.Sprintf("refresh cube: %v", e.Cause) }

func (e *RefreshError) Unwrap() error { return e.Cause }

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrSchema creates a SchemaError with a formatted message.
func ErrSchema(format string, args ...interface{}) *SchemaError {
	return &SchemaError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrSyntax creates a QuerySyntaxError for the given line.
func ErrSyntax(line int, format string, args ...interface{}) *QuerySyntaxError {
	return &QuerySyntaxError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// ErrSemantic creates a SemanticError without scope.
func ErrSemantic(kind SemanticErrorKind, identifier string) *SemanticError {
	return &SemanticError{Kind: kind, Identifier: identifier}
}

// ErrSemanticIn creates a SemanticError scoped to an enclosing cube or dimension.
func ErrSemanticIn(kind SemanticErrorKind, identifier, scope string) *SemanticError {
	return &SemanticError{Kind: kind, Identifier: identifier, Scope: scope}
}

// ErrExecution wraps a warehouse failure.
func ErrExecution(cause error) *ExecutionError {
	return &ExecutionError{Cause: cause}
}

// ErrRefresh wraps a refresh failure.
func ErrRefresh(cause error) *RefreshError {
	return &RefreshError{Cause: cause}
}
