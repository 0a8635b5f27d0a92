package tokenizer

import (
	"strings"

	"github.com/roach88/rpncalc/internal/numeric"
)

// Kind identifies the variant of a Token.
type Kind int

const (
	KindNumber Kind = iota + 1
	KindOperator
	KindOpenParen
	KindCloseParen
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindOperator:
		return "operator"
	case KindOpenParen:
		return "open_paren"
	case KindCloseParen:
		return "close_paren"
	default:
		return "invalid"
	}
}

// Token is one element of a tokenized expression.
// Tokens are values; they are never mutated after Tokenize returns them.
type Token struct {
	Kind Kind

	// Value is set for KindNumber.
	Value numeric.Number

	// Symbol is set for KindOperator.
	Symbol string

	// Pos is the 1-based index of the piece in the input, 0 for tokens not
	// produced from input (placeholders, tokens built in tests).
	Pos int

	// Text is the raw input piece.
	Text string
}

// NumberToken creates a number token.
func NumberToken(v numeric.Number) Token {
	return Token{Kind: KindNumber, Value: v}
}

// OperatorToken creates an operator token.
func OperatorToken(symbol string) Token {
	return Token{Kind: KindOperator, Symbol: symbol}
}

// OpenParenToken creates a '(' token.
func OpenParenToken() Token {
	return Token{Kind: KindOpenParen}
}

// CloseParenToken creates a ')' token.
func CloseParenToken() Token {
	return Token{Kind: KindCloseParen}
}

// placeholderText renders a reduced parenthesized group.
const placeholderText = "(...)"

// placeholder stands in for a validated parenthesized group.
// Its value is never read; only its depth contribution of one matters.
func placeholder(pos int) Token {
	return Token{Kind: KindNumber, Value: numeric.Int(0), Pos: pos, Text: placeholderText}
}

// String renders the token as it would appear in an expression.
func (t Token) String() string {
	if t.Text != "" {
		return t.Text
	}
	switch t.Kind {
	case KindNumber:
		if t.Value == nil {
			return "<nil>"
		}
		return t.Value.String()
	case KindOperator:
		return t.Symbol
	case KindOpenParen:
		return "("
	case KindCloseParen:
		return ")"
	default:
		return "?"
	}
}

// Join renders tokens separated by single spaces.
func Join(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
