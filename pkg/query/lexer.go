package query

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes pin filter expressions. Every bare word lexes as Ident
// and is then promoted by classifyWord, so keywords and field names only
// match whole words: net is a field, net.1 is a value.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},

	{Name: "Op", Pattern: `!=|<=|>=|=|~|<|>`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_.+/*?\[\]\-]+`},

	// never matched directly; Ident tokens are retyped to these
	{Name: "KwAnd", Pattern: `(?i)and`},
	{Name: "KwOr", Pattern: `(?i)or`},
	{Name: "KwNot", Pattern: `(?i)not`},
	{Name: "Field", Pattern: `(?i)net|part|side|probe|name`},
	{Name: "Integer", Pattern: `-?[0-9]+`},
})

var (
	symbols = Lexer.Symbols()
	integer = regexp.MustCompile(`^-?[0-9]+$`)
)

// classifyWord retypes a whole word as a keyword, a field or an integer.
// Digits glued to letters, such as 3V3, stay identifiers.
func classifyWord(t lexer.Token) (lexer.Token, error) {
	switch strings.ToLower(t.Value) {
	case "and":
		t.Type = symbols["KwAnd"]
	case "or":
		t.Type = symbols["KwOr"]
	case "not":
		t.Type = symbols["KwNot"]
	case "net", "part", "side", "probe", "name":
		t.Type = symbols["Field"]
	default:
		if integer.MatchString(t.Value) {
			t.Type = symbols["Integer"]
		}
	}
	return t, nil
}
