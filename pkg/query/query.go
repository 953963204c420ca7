// Package query implements a small filter language over board pins.
//
//	net ~ "VDD*" and not side = bottom
//	part = U1 or (probe >= 100 and probe < 200)
//
// Fields are net, part, side, probe and name. String fields accept =, !=
// and ~ (glob); probe also accepts <, >, <= and >=.
package query

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

var parser = participle.MustBuild[Expr](
	participle.Lexer(Lexer),
	participle.Map(classifyWord, "Ident"),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.CaseInsensitive("Field"),
	participle.UseLookahead(2),
)

// Query is a compiled filter
type Query struct {
	src  string
	root *Expr
}

// Compile parses and checks a filter expression
func Compile(src string) (*Query, error) {
	root, err := parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", src, err)
	}
	if err := root.check(); err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", src, err)
	}
	return &Query{src: src, root: root}, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(src string) *Query {
	q, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return q
}

func (q *Query) String() string {
	return q.src
}

// Match reports whether pin i of b satisfies the query
func (q *Query) Match(b *board.Board, i int) bool {
	return q.root.eval(b, i)
}

// Filter returns the indices of all pins of b matching q, in pin order
func Filter(b *board.Board, q *Query) []int {
	var out []int
	for i := range b.Pins {
		if q.Match(b, i) {
			out = append(out, i)
		}
	}
	return out
}

func (e *Expr) check() error {
	for _, a := range e.Or {
		for _, u := range a.And {
			if err := u.check(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (u *Unary) check() error {
	switch {
	case u.Not != nil:
		return u.Not.check()
	case u.Sub != nil:
		return u.Sub.check()
	}
	return u.Cmp.check()
}

func (c *Cmp) check() error {
	c.Field = strings.ToLower(c.Field)
	switch c.Op {
	case "<", ">", "<=", ">=":
		if c.Field != "probe" {
			return fmt.Errorf("operator %s needs a numeric field, got %s", c.Op, c.Field)
		}
	}
	if c.Field == "probe" {
		if c.Op == "~" {
			return fmt.Errorf("operator ~ needs a string field, got probe")
		}
		if c.Value.Int == nil {
			return fmt.Errorf("probe compares against an integer, got %q", c.Value.text())
		}
	}
	if c.Field == "side" && c.Op != "~" {
		switch strings.ToLower(c.Value.text()) {
		case "top", "bottom", "both":
		default:
			return fmt.Errorf("side must be top, bottom or both, got %q", c.Value.text())
		}
	}
	if c.Op == "~" {
		if _, err := path.Match(c.Value.text(), ""); err != nil {
			return fmt.Errorf("bad pattern %q: %w", c.Value.text(), err)
		}
	}
	return nil
}

func (v *Value) text() string {
	switch {
	case v.Str != nil:
		return *v.Str
	case v.Int != nil:
		return strconv.Itoa(*v.Int)
	}
	return *v.Ident
}

func (e *Expr) eval(b *board.Board, i int) bool {
	for _, a := range e.Or {
		if a.eval(b, i) {
			return true
		}
	}
	return false
}

func (a *And) eval(b *board.Board, i int) bool {
	for _, u := range a.And {
		if !u.eval(b, i) {
			return false
		}
	}
	return true
}

func (u *Unary) eval(b *board.Board, i int) bool {
	switch {
	case u.Not != nil:
		return !u.Not.eval(b, i)
	case u.Sub != nil:
		return u.Sub.eval(b, i)
	}
	return u.Cmp.eval(b, i)
}

func (c *Cmp) eval(b *board.Board, i int) bool {
	pin := &b.Pins[i]
	if c.Field == "probe" {
		return compareInt(pin.Probe, c.Op, *c.Value.Int)
	}

	var got string
	fold := false
	switch c.Field {
	case "net":
		got = pin.Net
	case "part":
		if part := b.PartOf(pin); part != nil {
			got = part.Name
		}
	case "name":
		got = b.PinLabel(i)
	case "side":
		got, fold = pin.Side.String(), true
	}
	want := c.Value.text()
	if fold {
		got, want = strings.ToLower(got), strings.ToLower(want)
	}

	switch c.Op {
	case "=":
		return got == want
	case "!=":
		return got != want
	case "~":
		ok, _ := path.Match(want, got)
		return ok
	}
	return false
}

func compareInt(got int, op string, want int) bool {
	switch op {
	case "=":
		return got == want
	case "!=":
		return got != want
	case "<":
		return got < want
	case ">":
		return got > want
	case "<=":
		return got <= want
	case ">=":
		return got >= want
	}
	return false
}
