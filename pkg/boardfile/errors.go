// Package boardfile contains the pieces shared by the board file dialects:
// the parse error taxonomy, the line splitter, the field cursor and the
// legacy de-obfuscation.
package boardfile

import (
	"errors"
	"fmt"
)

// Kind classifies a parse failure
type Kind int

const (
	BufferTooSmall Kind = iota + 1
	AllocationFailed
	CountMismatch
	NegativeUnsigned
	PartPinRangeOutOfBounds
	UnknownSection
	BadSignature
	InvalidNumber
	MissingField
	OutOfBounds
	NoSections
	Syntax
)

var kindNames = map[Kind]string{
	BufferTooSmall:          "buffer too small",
	AllocationFailed:        "allocation failed",
	CountMismatch:           "count mismatch",
	NegativeUnsigned:        "negative unsigned value",
	PartPinRangeOutOfBounds: "part/pin range out of bounds",
	UnknownSection:          "unknown section",
	BadSignature:            "bad signature",
	InvalidNumber:           "invalid number",
	MissingField:            "missing field",
	OutOfBounds:             "coordinate out of bounds",
	NoSections:              "no sections found",
	Syntax:                  "malformed input",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseError describes why a buffer was rejected. A parser that returns a
// ParseError never returns a board alongside it.
type ParseError struct {
	Kind    Kind
	Dialect string
	Section string // section the failure belongs to, if any
	Field   string // field being read, if any
	Line    int    // 1-based line number, 0 when not tied to a line
	Msg     string
}

func (e *ParseError) Error() string {
	msg := e.Dialect + ": " + e.Kind.String()
	if e.Section != "" {
		msg += " in " + e.Section
	}
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

// Errorf builds a ParseError of the given kind
func Errorf(kind Kind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a ParseError of kind k
func IsKind(err error, k Kind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == k
}

// Mismatch builds a CountMismatch error for a section
func Mismatch(section string, declared, parsed int) *ParseError {
	return &ParseError{
		Kind:    CountMismatch,
		Section: section,
		Msg:     fmt.Sprintf("declared %d, parsed %d", declared, parsed),
	}
}
