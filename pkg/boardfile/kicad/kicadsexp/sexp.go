// Package kicadsexp is a small streaming S-expression reader for KiCad
// board files, with lookup helpers for keyed lists such as (at 1 2).
package kicadsexp

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexp is either an atom (Symbol, Quoted) or a *List
type Sexp interface {
	IsLeaf() bool
	String() string
}

// Symbol is a bare atom: keyword, number or identifier
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) String() string { return string(s) }

// Quoted is a double-quoted string atom, stored unescaped
type Quoted string

func (q Quoted) IsLeaf() bool   { return true }
func (q Quoted) String() string { return strconv.Quote(string(q)) }

// List is a parenthesised sequence; Line is where it opened
type List struct {
	Items []Sexp
	Line  int
}

func (l *List) IsLeaf() bool { return false }

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(item.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Len returns the number of elements in the list
func (l *List) Len() int { return len(l.Items) }

// Key returns the leading symbol of the list, or "" if there is none
func (l *List) Key() string {
	if len(l.Items) == 0 {
		return ""
	}
	if s, ok := l.Items[0].(Symbol); ok {
		return string(s)
	}
	return ""
}

// Find returns the first child list whose key matches
func (l *List) Find(key string) (*List, bool) {
	for _, item := range l.Items {
		if sub, ok := item.(*List); ok && sub.Key() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAll returns every child list whose key matches
func (l *List) FindAll(key string) []*List {
	var out []*List
	for _, item := range l.Items {
		if sub, ok := item.(*List); ok && sub.Key() == key {
			out = append(out, sub)
		}
	}
	return out
}

// Atom returns the text of the atom at index, quoted or not
func (l *List) Atom(index int) (string, error) {
	if index < 0 || index >= len(l.Items) {
		return "", fmt.Errorf("%s: index %d out of bounds (length %d)", l.Key(), index, len(l.Items))
	}
	switch v := l.Items[index].(type) {
	case Symbol:
		return string(v), nil
	case Quoted:
		return string(v), nil
	}
	return "", fmt.Errorf("%s: expected atom at index %d", l.Key(), index)
}

// Float parses the atom at index as a number
func (l *List) Float(index int) (float64, error) {
	s, err := l.Atom(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to parse float %q", l.Key(), s)
	}
	return v, nil
}

// Int parses the atom at index as an integer
func (l *List) Int(index int) (int, error) {
	s, err := l.Atom(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to parse int %q", l.Key(), s)
	}
	return v, nil
}

// Has reports whether a bare symbol appears among the list's atoms
func (l *List) Has(symbol string) bool {
	for _, item := range l.Items {
		if s, ok := item.(Symbol); ok && string(s) == symbol {
			return true
		}
	}
	return false
}
