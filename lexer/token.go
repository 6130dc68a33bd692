// Package lexer produces a position-sorted token stream by matching
// every terminal rule's regular expression against the input.
package lexer

import (
	"github.com/SimoneAncona/xparse/grammar"
)

// Token is one match of a terminal rule's regex against the input.
// Tokens are immutable once produced; they are rebuilt for every call
// to Parser.GenerateAST.
type Token struct {
	from  grammar.TerminalRule
	index int
	line  int
	col   int
	value string
}

// From returns the terminal rule this token matched.
func (t *Token) From() grammar.TerminalRule {
	return t.from
}

// Index returns the byte offset of the token's first byte in the input.
func (t *Token) Index() int {
	return t.index
}

// Value returns the matched text. It always equals
// input[Index() : Index()+len(Value())].
func (t *Token) Value() string {
	return t.value
}

// Line returns the 0-based line the token starts on.
func (t *Token) Line() int {
	return t.line
}

// Col returns the 0-based column the token starts on.
func (t *Token) Col() int {
	return t.col
}

// SourceName implements xparse.SourcePos. Tokens carry no source file
// name, only a position within the single input string supplied to
// GenerateAST.
func (t *Token) SourceName() string {
	return ""
}
