package boardfile

import (
	"strconv"
	"strings"
)

// Cursor reads whitespace-delimited fields from one line. Every read
// reports failure explicitly; values are never clamped or defaulted.
type Cursor struct {
	s    string
	pos  int
	Line int
}

// NewCursor returns a cursor positioned at the start of text
func NewCursor(text string, line int) *Cursor {
	return &Cursor{s: text, Line: line}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r' || c == '\n'
}

// next returns the next token, or "" when the line is exhausted. The token
// shares memory with the line.
func (c *Cursor) next() string {
	for c.pos < len(c.s) && isSpace(c.s[c.pos]) {
		c.pos++
	}
	start := c.pos
	for c.pos < len(c.s) && !isSpace(c.s[c.pos]) {
		c.pos++
	}
	return c.s[start:c.pos]
}

// Done reports whether only whitespace is left
func (c *Cursor) Done() bool {
	for i := c.pos; i < len(c.s); i++ {
		if !isSpace(c.s[i]) {
			return false
		}
	}
	return true
}

// Rest returns the remainder of the line with surrounding whitespace removed
func (c *Cursor) Rest() string {
	rest := strings.TrimFunc(c.s[c.pos:], func(r rune) bool { return r < 0x80 && isSpace(byte(r)) })
	c.pos = len(c.s)
	return rest
}

func (c *Cursor) fail(kind Kind, field, msg string) *ParseError {
	return &ParseError{Kind: kind, Field: field, Line: c.Line, Msg: msg}
}

// ReadInt reads a signed decimal integer
func (c *Cursor) ReadInt(field string) (int, error) {
	tok := c.next()
	if tok == "" {
		return 0, c.fail(MissingField, field, "")
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, c.fail(InvalidNumber, field, strconv.Quote(tok))
	}
	return v, nil
}

// ReadUint reads an unsigned decimal integer. A well-formed negative number
// is reported as NegativeUnsigned rather than wrapped.
func (c *Cursor) ReadUint(field string) (int, error) {
	tok := c.next()
	if tok == "" {
		return 0, c.fail(MissingField, field, "")
	}
	if strings.HasPrefix(tok, "-") {
		if _, err := strconv.Atoi(tok); err == nil {
			return 0, c.fail(NegativeUnsigned, field, tok)
		}
		return 0, c.fail(InvalidNumber, field, strconv.Quote(tok))
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(tok, "+"), 10, 31)
	if err != nil {
		return 0, c.fail(InvalidNumber, field, strconv.Quote(tok))
	}
	return int(v), nil
}

// ReadString reads the next token
func (c *Cursor) ReadString(field string) (string, error) {
	tok := c.next()
	if tok == "" {
		return "", c.fail(MissingField, field, "")
	}
	return tok, nil
}

// OptString reads the next token, returning "" when the line is exhausted
func (c *Cursor) OptString() string {
	return c.next()
}
