package query

// Expr is a disjunction: a or b or ...
type Expr struct {
	Or []*And `parser:"@@ ( KwOr @@ )*"`
}

// And is a conjunction: a and b and ...
type And struct {
	And []*Unary `parser:"@@ ( KwAnd @@ )*"`
}

// Unary is a negation, a parenthesized expression or a comparison
type Unary struct {
	Not *Unary `parser:"  KwNot @@"`
	Sub *Expr  `parser:"| LParen @@ RParen"`
	Cmp *Cmp   `parser:"| @@"`
}

// Cmp compares one pin field against a literal
// Example: net ~ "VDD*"
type Cmp struct {
	Field string `parser:"@Field"`
	Op    string `parser:"@Op"`
	Value *Value `parser:"@@"`
}

// Value is a quoted string, an integer or a bare word
type Value struct {
	Str   *string `parser:"  @String"`
	Int   *int    `parser:"| @Integer"`
	Ident *string `parser:"| @( Ident | Field )"`
}
