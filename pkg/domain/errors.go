package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Use errors.Is against these; errors.As(*BuildError) for details.
var (
	ErrParse              = errors.New("parse error")
	ErrUnknownReference   = errors.New("unknown reference")
	ErrCyclicReference    = errors.New("cyclic reference")
	ErrUnknownTarget      = errors.New("unknown target")
	ErrArgumentMismatch   = errors.New("argument mismatch")
	ErrMissingPlaceholder = errors.New("missing placeholder")
	ErrConstruction       = errors.New("construction failed")
)

var (
	// ErrManifestNotFound is returned by stores when a manifest ID is unknown.
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrDocumentNotFound is returned by loaders when a document name is unknown.
	ErrDocumentNotFound = errors.New("document not found")
)

// BuildError is returned by parsing and resolution. Construction halts on the
// first BuildError and no graph is returned.
type BuildError struct {
	Kind  error
	Node  string
	Cause string
	// Cycle holds the witness path for cyclic references (first == last).
	Cycle []string
	// Line and Column locate parse errors, when known.
	Line   int
	Column int
	Err    error
}

func (e *BuildError) Error() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Node != "" {
		fmt.Fprintf(&sb, ": node %q", e.Node)
	}
	switch {
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&sb, " (line %d, column %d)", e.Line, e.Column)
	case e.Line > 0:
		fmt.Fprintf(&sb, " (line %d)", e.Line)
	}
	if len(e.Cycle) > 0 {
		sb.WriteString(": " + strings.Join(e.Cycle, " -> "))
	}
	if e.Cause != "" {
		sb.WriteString(": " + e.Cause)
	}
	return sb.String()
}

func (e *BuildError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError builds a BuildError with a formatted cause.
func NewError(kind error, node string, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Node: node, Cause: fmt.Sprintf(format, args...)}
}

// WrapError builds a BuildError around an underlying error.
func WrapError(kind error, node string, err error) *BuildError {
	return &BuildError{Kind: kind, Node: node, Cause: err.Error(), Err: err}
}

// KindName returns a short machine-friendly name for err's kind, or "internal".
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrUnknownReference):
		return "unknown_reference"
	case errors.Is(err, ErrCyclicReference):
		return "cyclic_reference"
	case errors.Is(err, ErrUnknownTarget):
		return "unknown_target"
	case errors.Is(err, ErrArgumentMismatch):
		return "argument_mismatch"
	case errors.Is(err, ErrMissingPlaceholder):
		return "missing_placeholder"
	case errors.Is(err, ErrConstruction):
		return "construction"
	default:
		return "internal"
	}
}
