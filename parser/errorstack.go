package parser

import (
	"github.com/SimoneAncona/xparse"
)

// Error codes used by the evaluator, all of class xparse.SyntaxErrors.
const (
	ExpectedTokenError = xparse.SyntaxErrors + iota
	UnexpectedTokenError
	UnmatchedRuleError
	TopLevelSyntaxError
)

// pushError appends a record to p.errStack, the append-only ordered log
// of failed-match diagnostics. Every failing primitive pushes a record
// here and returns false; nothing is recovered mid-parse, backtracking
// is the only mechanism. A successful parse may still leave a non-empty
// stack from explored-and-abandoned branches — callers should treat a
// non-empty stack on success as advisory only.
func (p *Parser) pushError(kind xparse.Kind, code, index int, msg string, params ...any) {
	line, col := p.lineCol(index)
	p.errStack = append(p.errStack, xparse.NewStackError(kind, code, index, line, col, msg, params...))
}

// ErrorStack returns the full ordered log of errors recorded across
// every call to GenerateAST since construction or the last ResetErrors.
func (p *Parser) ErrorStack() []*xparse.Error {
	return p.errStack
}

// LastError returns the most recently recorded error, or nil if the
// stack is empty.
func (p *Parser) LastError() *xparse.Error {
	if len(p.errStack) == 0 {
		return nil
	}
	return p.errStack[len(p.errStack)-1]
}

// ResetErrors clears the error stack. The stack is not cleared
// automatically between calls to GenerateAST; callers
// that want a clean stack per parse must call this explicitly.
func (p *Parser) ResetErrors() {
	p.errStack = nil
}

func (p *Parser) lineCol(index int) (int, int) {
	if p.src == nil {
		return 0, 0
	}
	return p.src.LineCol(index)
}
