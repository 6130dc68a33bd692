package parser

import (
	"sort"
	"strings"

	"github.com/SimoneAncona/xparse"
	"github.com/SimoneAncona/xparse/grammar"
	"github.com/SimoneAncona/xparse/lexer"
	"github.com/SimoneAncona/xparse/tree"
)

// currentToken returns the token at the cursor, or (nil, false) at
// end of input. A token with no byte left under the cursor (the
// zero-width eof token matched at the end of the input) also counts as
// end of input. Every caller below treats a false result as an
// ExpectedToken failure referring to end of input, never a crash.
func (p *Parser) currentToken() (*lexer.Token, bool) {
	if p.cursor.atEnd(len(p.tokens)) {
		return nil, false
	}
	tok := p.tokens[p.cursor.tokenIndex]
	if p.cursor.charIndex >= len(tok.Value()) {
		return nil, false
	}
	return tok, true
}

// currentIndex returns the absolute byte offset the cursor refers to,
// for error reporting.
func (p *Parser) currentIndex() int {
	if tok, ok := p.currentToken(); ok {
		return tok.Index() + p.cursor.charIndex
	}
	return len(p.input)
}

// analyzeRule tries each of rule's expressions in turn, snapshotting the
// cursor before each attempt and restoring it on failure. The first
// expression that matches wins; its staged node is returned. If every
// expression fails, a single UnmatchedRule record is pushed (on top of
// whatever individual element failures already pushed) and analyzeRule
// reports failure to its caller.
func (p *Parser) analyzeRule(rule *grammar.Rule) (*tree.AST, bool) {
	for i := range rule.Expressions {
		snap := p.cursor
		node := tree.NewNode(rule.Name)
		if p.analyzeExpression(node, &rule.Expressions[i]) {
			return node, true
		}
		p.cursor = snap
	}

	p.pushError(xparse.KindUnmatchedRule, UnmatchedRuleError, p.currentIndex(), "no expression of rule %q matched", rule.Name)
	return nil, false
}

// analyzeExpression matches every element of expr in order against
// node's rule name, consuming tokens (and characters within tokens) as
// it goes. Every element must match consecutively for the expression to
// succeed.
func (p *Parser) analyzeExpression(node *tree.AST, expr *grammar.RuleExpression) bool {
	for i := range expr.Elements {
		if expr.Flags.IgnoreSpaces {
			p.skipSpaces()
		}

		elem := &expr.Elements[i]
		switch elem.Kind {
		case grammar.ElemConstant:
			if !p.matchConstant(node, elem.Literal, expr.Flags) {
				return false
			}
		case grammar.ElemReference:
			if !p.matchQuantified(node, elem.Quantifier, func() bool {
				return p.tryReference(node, elem.Target)
			}, "reference to %q", elem.Target) {
				return false
			}
		case grammar.ElemAlternative:
			if !p.matchAlternative(node, elem.Alts) {
				return false
			}
		}
	}
	return true
}

// skipSpaces advances the cursor past consecutive ASCII whitespace
// characters, one character at a time using the same token-boundary
// advance rule as matchConstant. It never fails: there being nothing to
// skip is not an error.
func (p *Parser) skipSpaces() {
	for {
		tok, ok := p.currentToken()
		if !ok {
			return
		}
		c := tok.Value()[p.cursor.charIndex]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		p.advanceChar(tok)
	}
}

// advanceChar moves the cursor past one byte of tok's value, rolling
// over to the token(s) starting at the next byte offset when tok is
// exhausted.
func (p *Parser) advanceChar(tok *lexer.Token) {
	p.cursor.charIndex++
	if p.cursor.charIndex >= len(tok.Value()) {
		p.seekToByteOffset(tok.Index() + len(tok.Value()))
	}
}

// seekToByteOffset points the cursor at the first token in p.tokens
// whose Index() is offset. Because lexer.Lex records every overlapping
// match of every terminal rather than the single longest match, many
// tokens can share a starting index; p.tokens[tokenIndex+1] is
// overwhelmingly another entry at the *same* offset the cursor just
// left, not the next offset. p.tokens is sorted by Index ascending, so
// a binary search for the first entry at or past offset lands on the
// first of those sharing the new offset (or at len(p.tokens), meaning
// end of input, if none do).
func (p *Parser) seekToByteOffset(offset int) {
	i := sort.Search(len(p.tokens), func(i int) bool {
		return p.tokens[i].Index() >= offset
	})
	p.cursor = cursor{tokenIndex: i, charIndex: 0}
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// matchConstant matches literal character-by-character against the
// current token's value starting at the cursor's char offset,
// advancing one character at a time and rolling over to the next token
// whenever the current one is exhausted. On success it appends a leaf
// holding the text actually consumed from the input (not the literal
// itself), so that a soft case-insensitive match preserves the
// original casing.
func (p *Parser) matchConstant(node *tree.AST, literal string, flags grammar.Flags) bool {
	startIndex := p.currentIndex()
	var consumed strings.Builder

	for i := 0; i < len(literal); i++ {
		want := literal[i]
		tok, ok := p.currentToken()
		if !ok {
			p.pushError(xparse.KindExpectedToken, ExpectedTokenError, len(p.input), "expected %q, got end of input", literal)
			return false
		}

		got := tok.Value()[p.cursor.charIndex]
		matched := got == want
		if !matched && flags.Case != grammar.CaseClear {
			matched = lowerByte(got) == lowerByte(want)
		}
		if !matched {
			p.pushError(xparse.KindExpectedToken, ExpectedTokenError, p.currentIndex(), "expected %q", literal)
			return false
		}

		consumed.WriteByte(got)
		p.advanceChar(tok)
	}

	if flags.Boundary && !p.hasWordBoundary(startIndex, p.currentIndex()) {
		p.pushError(xparse.KindExpectedToken, ExpectedTokenError, startIndex, "expected word boundary around %q", literal)
		return false
	}

	text := consumed.String()
	if flags.Case == grammar.CaseStrict {
		text = strings.ToLower(text)
	}
	node.Append(tree.NewLeaf(node.RuleName(), text))
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// hasWordBoundary reports whether both edges of input[start:end] sit on
// a word/non-word transition, implementing the 'b' boundary flag.
func (p *Parser) hasWordBoundary(start, end int) bool {
	beforeIsWord := start > 0 && isWordByte(p.input[start-1])
	afterIsWord := end < len(p.input) && isWordByte(p.input[end])
	startIsWord := start < len(p.input) && isWordByte(p.input[start])
	endIsWord := end > 0 && isWordByte(p.input[end-1])

	leadingBoundary := beforeIsWord != startIsWord
	trailingBoundary := endIsWord != afterIsWord
	return leadingBoundary && trailingBoundary
}

// tryReference attempts target once: if it resolves to a rule, recurse
// via analyzeRule; if it resolves to a terminal, succeed iff a token
// named target can be found at the cursor (scanning forward across
// same-index overlapping tokens). target cannot fail to resolve to
// either: Load rejects any grammar containing an unresolvable reference.
func (p *Parser) tryReference(node *tree.AST, target string) bool {
	switch p.grammar.Resolve(target) {
	case grammar.RefRule:
		rule, _ := p.grammar.FindRule(target)
		child, ok := p.analyzeRule(rule)
		if !ok {
			return false
		}
		node.Append(child)
		return true

	case grammar.RefTerminal:
		idx, ok := p.findTerminalToken(target)
		if !ok {
			p.pushError(xparse.KindUnmatchedRule, UnmatchedRuleError, p.currentIndex(), "expected token of type %q", target)
			return false
		}
		tok := p.tokens[idx]
		node.Append(tree.NewLeaf(target, tok.Value()))
		p.seekToByteOffset(tok.Index() + len(tok.Value()))
		return true

	default:
		return false
	}
}

// findTerminalToken looks for a token named target starting at the
// cursor's token index. Several terminals can match at the same
// starting offset, and stable-sort order does not guarantee a
// T-labeled token comes first among them; this scans forward across
// every token sharing the cursor's current index before giving up,
// returning that token's slice index.
func (p *Parser) findTerminalToken(target string) (int, bool) {
	i := p.cursor.tokenIndex
	if i >= len(p.tokens) || p.cursor.charIndex != 0 {
		return 0, false
	}

	startIndex := p.tokens[i].Index()
	for j := i; j < len(p.tokens) && p.tokens[j].Index() == startIndex; j++ {
		if p.tokens[j].From().Name == target {
			return j, true
		}
	}
	return 0, false
}

// matchQuantified applies quantifier semantics to a single-valued
// attempt function. Plain references pass an attempt that resolves one
// target; matchAlternative passes an attempt that tries every branch in
// turn and fails only when all of them fail.
func (p *Parser) matchQuantified(node *tree.AST, q grammar.Quantifier, tryOnce func() bool, descFmt string, descArgs ...any) bool {
	switch q.Kind {
	case grammar.QNone:
		return tryOnce()

	case grammar.QZeroOrOne:
		snap := p.cursor
		if !tryOnce() {
			p.cursor = snap
		}
		return true

	case grammar.QZeroOrMore:
		for {
			snap := p.cursor
			if !tryOnce() {
				p.cursor = snap
				return true
			}
		}

	case grammar.QOneOrMore:
		count := 0
		for {
			snap := p.cursor
			if !tryOnce() {
				p.cursor = snap
				break
			}
			count++
		}
		if count == 0 {
			p.pushError(xparse.KindUnmatchedRule, UnmatchedRuleError, p.currentIndex(), descFmt, descArgs...)
			return false
		}
		return true

	case grammar.QExactly:
		for i := 0; i < q.Lo; i++ {
			if !tryOnce() {
				return false
			}
		}
		return true

	case grammar.QRange:
		count := 0
		for count < q.Hi {
			snap := p.cursor
			if !tryOnce() {
				p.cursor = snap
				break
			}
			count++
		}
		if count < q.Lo {
			p.pushError(xparse.KindUnmatchedRule, UnmatchedRuleError, p.currentIndex(), descFmt, descArgs...)
			return false
		}
		return true

	default:
		return tryOnce()
	}
}

// matchAlternative matches a one-of choice between two or more named
// references. A single trailing quantifier on the whole `<a|b>` form
// (only Exactly/Range are syntactically permitted, see package rel) is
// replicated onto every grammar.AltRef by the compiler, so every entry
// in alts carries the same Quantifier; matchAlternative reads it once.
func (p *Parser) matchAlternative(node *tree.AST, alts []grammar.AltRef) bool {
	if len(alts) == 0 {
		return true
	}
	q := alts[0].Quantifier

	tryOnce := func() bool {
		snap := p.cursor
		for _, alt := range alts {
			p.cursor = snap
			if p.tryReference(node, alt.Target) {
				return true
			}
		}
		p.cursor = snap
		return false
	}

	names := make([]string, len(alts))
	for i, a := range alts {
		names[i] = a.Target
	}
	return p.matchQuantified(node, q, tryOnce, "no alternative of <%s> matched", strings.Join(names, "|"))
}
