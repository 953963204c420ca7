package kicadsexp

import (
	"fmt"
	"io"
)

// SyntaxError reports malformed input with its line
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// reader walks a whole document held in memory
type reader struct {
	src  []byte
	pos  int
	line int
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f', '(', ')', '"':
		return true
	}
	return false
}

// skip moves past whitespace and # comments
func (r *reader) skip() {
	for r.pos < len(r.src) {
		switch c := r.src[r.pos]; c {
		case '\n':
			r.line++
			r.pos++
		case ' ', '\t', '\r', '\v', '\f':
			r.pos++
		case '#':
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
		default:
			return
		}
	}
}

// quoted reads a string atom; the opening quote is at r.pos
func (r *reader) quoted() (Quoted, error) {
	start := r.line
	r.pos++
	var out []byte
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		r.pos++
		switch c {
		case '"':
			return Quoted(out), nil
		case '\n':
			r.line++
		case '\\':
			if r.pos == len(r.src) {
				return "", &SyntaxError{Line: r.line, Msg: "unexpected EOF after backslash"}
			}
			c = r.src[r.pos]
			r.pos++
			switch c {
			case 'n':
				c = '\n'
			case 't':
				c = '\t'
			case 'r':
				c = '\r'
			case '\n':
				r.line++
			}
		}
		out = append(out, c)
	}
	return "", &SyntaxError{Line: start, Msg: "unexpected EOF in string"}
}

func (r *reader) symbol() Symbol {
	start := r.pos
	for r.pos < len(r.src) && !isDelim(r.src[r.pos]) {
		r.pos++
	}
	return Symbol(r.src[start:r.pos])
}

// document builds every top-level expression. Open lists are kept on an
// explicit stack so deeply nested input cannot exhaust the goroutine stack.
func (r *reader) document() ([]Sexp, error) {
	var (
		top   []Sexp
		stack []*List
	)
	add := func(x Sexp) {
		if n := len(stack); n > 0 {
			stack[n-1].Items = append(stack[n-1].Items, x)
		} else {
			top = append(top, x)
		}
	}

	for {
		r.skip()
		if r.pos == len(r.src) {
			break
		}
		switch r.src[r.pos] {
		case '(':
			r.pos++
			l := &List{Line: r.line}
			add(l)
			stack = append(stack, l)
		case ')':
			if len(stack) == 0 {
				return nil, &SyntaxError{Line: r.line, Msg: "unexpected ')'"}
			}
			r.pos++
			stack = stack[:len(stack)-1]
		case '"':
			q, err := r.quoted()
			if err != nil {
				return nil, err
			}
			add(q)
		default:
			add(r.symbol())
		}
	}
	if n := len(stack); n > 0 {
		return nil, &SyntaxError{Line: stack[n-1].Line, Msg: "unexpected EOF in list"}
	}
	return top, nil
}

// Parse reads every top-level S-expression from r
func Parse(r io.Reader) ([]Sexp, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(src)
}

// ParseBytes parses an in-memory document
func ParseBytes(src []byte) ([]Sexp, error) {
	rd := &reader{src: src, line: 1}
	return rd.document()
}

// ParseString parses S-expressions from a string
func ParseString(s string) ([]Sexp, error) {
	return ParseBytes([]byte(s))
}
