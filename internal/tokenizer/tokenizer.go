// Package tokenizer turns RPN expression text into typed tokens and checks
// the parenthesis structure.
//
// Validation reduces every closed group to a single placeholder operand once
// the group itself is proven to be valid RPN. Outer levels therefore see an
// opaque operand and never recompute the group. Groups nest to any depth;
// the scan is iterative.
package tokenizer

import (
	"errors"
	"strconv"
	"strings"

	"github.com/roach88/rpncalc/internal/calcerr"
	"github.com/roach88/rpncalc/internal/numeric"
	"github.com/roach88/rpncalc/internal/operators"
)

// Tokenizer splits expressions using an operator registry to recognize
// operator symbols.
//
// Thread-safety: Tokenizer holds no mutable state and is safe for
// concurrent use.
type Tokenizer struct {
	registry *operators.Registry
}

// New creates a tokenizer. A nil registry selects operators.Default().
func New(registry *operators.Registry) *Tokenizer {
	if registry == nil {
		registry = operators.Default()
	}
	return &Tokenizer{registry: registry}
}

var defaultTokenizer = New(nil)

// Tokenize tokenizes text with the built-in operator registry.
func Tokenize(text string) ([]Token, error) {
	return defaultTokenizer.Tokenize(text)
}

// Tokenize splits text on whitespace runs and classifies each piece, then
// validates the parenthesis structure.
//
// Classification order per piece:
//  1. exact operator symbol
//  2. "(" or ")"
//  3. number: pieces containing "." parse as float64, others as int64;
//     integral floats collapse to Int
//
// Errors (all ParserError):
//   - EMPTY_EXPRESSION for empty or all-whitespace input
//   - UNKNOWN_TOKEN for a piece that is none of the above
//   - UNBALANCED_PARENTHESIS for an extra ')' or unclosed '('
//   - INVALID_SUBEXPRESSION for a group that is not valid RPN on its own
func (t *Tokenizer) Tokenize(text string) ([]Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, calcerr.NewEmptyExpression()
	}

	pieces := strings.Fields(text)
	tokens := make([]Token, 0, len(pieces))
	for i, piece := range pieces {
		tok, err := t.classify(piece, i+1)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	if len(tokens) == 0 {
		return nil, calcerr.NewNoTokens()
	}

	if err := t.ValidateStructure(tokens); err != nil {
		return nil, err
	}

	return tokens, nil
}

// classify converts one whitespace-free piece into a token.
func (t *Tokenizer) classify(piece string, pos int) (Token, error) {
	if _, ok := t.registry.Lookup(piece); ok {
		return Token{Kind: KindOperator, Symbol: piece, Pos: pos, Text: piece}, nil
	}

	switch piece {
	case "(":
		return Token{Kind: KindOpenParen, Pos: pos, Text: piece}, nil
	case ")":
		return Token{Kind: KindCloseParen, Pos: pos, Text: piece}, nil
	}

	v, ok := parseNumber(piece)
	if !ok {
		return Token{}, calcerr.NewUnknownToken(piece, pos)
	}
	return Token{Kind: KindNumber, Value: v, Pos: pos, Text: piece}, nil
}

// parseNumber parses a decimal literal.
// An int64 overflow falls back to float64; float64 overflow yields ±Inf.
func parseNumber(piece string) (numeric.Number, bool) {
	// Decimal notation only.
	if strings.ContainsAny(piece, "xX") {
		return nil, false
	}

	if strings.Contains(piece, ".") {
		return parseFloat(piece)
	}

	i, err := strconv.ParseInt(piece, 10, 64)
	if err == nil {
		return numeric.Int(i), true
	}
	if errors.Is(err, strconv.ErrRange) {
		return parseFloat(piece)
	}
	return nil, false
}

func parseFloat(piece string) (numeric.Number, bool) {
	f, err := strconv.ParseFloat(piece, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, false
	}
	return numeric.FromFloat(f), true
}

// group is the accumulator for one open parenthesized group.
type group struct {
	tokens []Token
	open   int // position of the '(' that opened the group
}

// ValidateStructure checks parenthesis balance and that every group is a
// self-contained valid RPN expression.
//
// A stack of accumulators tracks open groups. On ')' the innermost group is
// checked with IsValidRPN and replaced in its parent by one placeholder
// operand. The top level itself is not checked here; the evaluator reports
// its stack errors.
func (t *Tokenizer) ValidateStructure(tokens []Token) error {
	var stack []group
	current := group{}

	for _, tok := range tokens {
		switch tok.Kind {
		case KindOpenParen:
			stack = append(stack, current)
			current = group{open: tok.Pos}

		case KindCloseParen:
			if len(stack) == 0 {
				return calcerr.NewExtraClosing(tok.Pos)
			}
			if !t.IsValidRPN(current.tokens) {
				return calcerr.NewInvalidSubexpression(Join(current.tokens), current.open)
			}
			enclosing := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			enclosing.tokens = append(enclosing.tokens, placeholder(current.open))
			current = enclosing

		default:
			current.tokens = append(current.tokens, tok)
		}
	}

	if len(stack) > 0 {
		return calcerr.NewMissingClosing(len(stack))
	}
	return nil
}

// IsValidRPN reports whether tokens form exactly one value when evaluated.
//
// Only stack depth is simulated: a number adds one; an operator of arity A
// needs depth >= A and changes depth by 1-A. Any other token, including a
// parenthesis, makes the sequence invalid. An empty sequence is invalid.
func (t *Tokenizer) IsValidRPN(tokens []Token) bool {
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case KindNumber:
			depth++
		case KindOperator:
			spec, ok := t.registry.Lookup(tok.Symbol)
			if !ok || depth < spec.Arity {
				return false
			}
			depth += 1 - spec.Arity
		default:
			return false
		}
	}
	return depth == 1
}
