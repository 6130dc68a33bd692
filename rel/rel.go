// Package rel compiles a rule-expression string (the "REL" mini-language)
// into a grammar.RuleExpression: an optional flag set
// followed by one or more ordered elements (constants, references, and
// alternatives), each reference carrying a quantifier.
//
// The grammar compiled here is:
//
//	expression := flags? element+
//	flags      := '[' flagChar* ']'
//	flagChar   := 'i' | 'I' | 'b' | 's'
//	element    := reference | constant
//	reference  := '<' refName ( '|' refName )* quantifier? '>'
//	refName    := [A-Za-z0-9]+
//	quantifier := '?' | '*' | '+' | '{' digits '}' | '{' digits ':' digits '}'
//	constant   := ( escapedChar | any char but '<', '>' )+
//	escapedChar:= '\' ( 'n' | 't' | 'r' | 'v' | '0' | any-other-literal )
package rel

import (
	"strconv"

	"github.com/SimoneAncona/xparse"
	"github.com/SimoneAncona/xparse/grammar"
)

// Error codes used by rel, all of class xparse.RelErrors.
const (
	UnterminatedFlagsError = xparse.RelErrors + iota
	DuplicateFlagError
	UnterminatedReferenceError
	InvalidReferenceNameError
	MalformedQuantifierError
	RepeatedRangeColonError
	EmptyRangeOperandError
	InvalidRangeError
	UnexpectedCloseError
	EmptyExpressionError
	QuantifiedAlternativeError
)

// Compile parses one rule-expression string and returns the
// grammar.RuleExpression it describes. Every failure is reported with
// the byte offset into expr at which it was detected.
func Compile(expr string) (*grammar.RuleExpression, error) {
	pos := 0
	flags := grammar.Flags{}

	if pos < len(expr) && expr[pos] == '[' {
		f, newPos, err := parseFlags(expr, pos)
		if err != nil {
			return nil, err
		}
		flags = f
		pos = newPos
	}

	elements, err := parseElements(expr, pos)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, xparse.FormatError(EmptyExpressionError, "empty rule expression at offset %d", pos)
	}

	return &grammar.RuleExpression{Flags: flags, Elements: elements}, nil
}

func parseFlags(expr string, pos int) (grammar.Flags, int, error) {
	start := pos
	pos++ // skip '['

	var flags grammar.Flags
	var sawSoft, sawStrict, sawBoundary, sawSpaces bool

	for {
		if pos >= len(expr) {
			return grammar.Flags{}, pos, xparse.FormatError(UnterminatedFlagsError, "unterminated flags starting at offset %d", start)
		}
		c := expr[pos]
		if c == ']' {
			pos++
			break
		}

		switch c {
		case 'i':
			if sawSoft || sawStrict {
				return grammar.Flags{}, pos, xparse.FormatError(DuplicateFlagError, "duplicate or incompatible case flag at offset %d", pos)
			}
			sawSoft = true
			flags.Case = grammar.CaseSoft
		case 'I':
			if sawSoft || sawStrict {
				return grammar.Flags{}, pos, xparse.FormatError(DuplicateFlagError, "duplicate or incompatible case flag at offset %d", pos)
			}
			sawStrict = true
			flags.Case = grammar.CaseStrict
		case 'b':
			if sawBoundary {
				return grammar.Flags{}, pos, xparse.FormatError(DuplicateFlagError, "duplicate 'b' flag at offset %d", pos)
			}
			sawBoundary = true
			flags.Boundary = true
		case 's':
			if sawSpaces {
				return grammar.Flags{}, pos, xparse.FormatError(DuplicateFlagError, "duplicate 's' flag at offset %d", pos)
			}
			sawSpaces = true
			flags.IgnoreSpaces = true
		default:
			return grammar.Flags{}, pos, xparse.FormatError(DuplicateFlagError, "unknown flag %q at offset %d", c, pos)
		}
		pos++
	}

	return flags, pos, nil
}

func parseElements(expr string, pos int) ([]grammar.ExpressionElement, error) {
	var elements []grammar.ExpressionElement
	var lit []byte

	flushLit := func() {
		if len(lit) > 0 {
			elements = append(elements, grammar.ExpressionElement{Kind: grammar.ElemConstant, Literal: string(lit)})
			lit = lit[:0]
		}
	}

	for pos < len(expr) {
		c := expr[pos]
		switch {
		case c == '<':
			flushLit()
			elem, newPos, err := parseReference(expr, pos)
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			pos = newPos

		case c == '>':
			return nil, xparse.FormatError(UnexpectedCloseError, "unexpected '>' at offset %d", pos)

		case c == '\\':
			text, newPos, err := parseEscape(expr, pos)
			if err != nil {
				return nil, err
			}
			lit = append(lit, text...)
			pos = newPos

		default:
			lit = append(lit, c)
			pos++
		}
	}
	flushLit()

	return elements, nil
}

func parseEscape(expr string, pos int) (string, int, error) {
	start := pos
	pos++ // skip '\'
	if pos >= len(expr) {
		return "", pos, xparse.FormatError(UnexpectedCloseError, "unterminated escape sequence at offset %d", start)
	}

	c := expr[pos]
	pos++
	switch c {
	case 'n':
		return "\n", pos, nil
	case 't':
		return "\t", pos, nil
	case 'r':
		return "\r", pos, nil
	case 'v':
		return "\v", pos, nil
	case '0':
		return "\x00", pos, nil
	default:
		return string(c), pos, nil
	}
}

func isRefChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// parseReference parses one `<name(|name)*quantifier?>` form starting at
// the '<' character and returns either a single RuleReference or an
// Alternative element.
func parseReference(expr string, pos int) (grammar.ExpressionElement, int, error) {
	start := pos
	pos++ // skip '<'

	var names []string
	for {
		nameStart := pos
		for pos < len(expr) && isRefChar(expr[pos]) {
			pos++
		}
		if pos == nameStart {
			return grammar.ExpressionElement{}, pos, xparse.FormatError(InvalidReferenceNameError, "expected reference name at offset %d", pos)
		}
		names = append(names, expr[nameStart:pos])

		if pos < len(expr) && expr[pos] == '|' {
			pos++
			continue
		}
		break
	}

	quant, newPos, err := parseQuantifier(expr, pos)
	if err != nil {
		return grammar.ExpressionElement{}, newPos, err
	}
	pos = newPos

	if pos >= len(expr) || expr[pos] != '>' {
		return grammar.ExpressionElement{}, pos, xparse.FormatError(UnterminatedReferenceError, "unterminated reference starting at offset %d", start)
	}
	pos++ // consume '>'

	if len(names) == 1 {
		return grammar.ExpressionElement{
			Kind:       grammar.ElemReference,
			Target:     names[0],
			Quantifier: quant,
		}, pos, nil
	}

	if !quant.None() && quant.Kind != grammar.QExactly && quant.Kind != grammar.QRange {
		return grammar.ExpressionElement{}, start, xparse.FormatError(QuantifiedAlternativeError, "quantifier %q not permitted on an alternative at offset %d", quant.Kind, start)
	}

	refs := make([]grammar.AltRef, len(names))
	for i, n := range names {
		refs[i] = grammar.AltRef{Target: n, Quantifier: quant}
	}
	return grammar.ExpressionElement{Kind: grammar.ElemAlternative, Alts: refs}, pos, nil
}

func scanDigits(expr string, pos int) (string, int) {
	start := pos
	for pos < len(expr) && expr[pos] >= '0' && expr[pos] <= '9' {
		pos++
	}
	return expr[start:pos], pos
}

// parseQuantifier parses an optional quantifier. If none is present it
// returns the zero-value (None) quantifier and pos unchanged.
func parseQuantifier(expr string, pos int) (grammar.Quantifier, int, error) {
	if pos >= len(expr) {
		return grammar.Quantifier{}, pos, nil
	}

	switch expr[pos] {
	case '?':
		return grammar.Quantifier{Kind: grammar.QZeroOrOne}, pos + 1, nil
	case '*':
		return grammar.Quantifier{Kind: grammar.QZeroOrMore}, pos + 1, nil
	case '+':
		return grammar.Quantifier{Kind: grammar.QOneOrMore}, pos + 1, nil
	case '{':
		return parseBraceQuantifier(expr, pos)
	default:
		return grammar.Quantifier{}, pos, nil
	}
}

func parseBraceQuantifier(expr string, pos int) (grammar.Quantifier, int, error) {
	start := pos
	pos++ // skip '{'

	loDigits, newPos := scanDigits(expr, pos)
	pos = newPos
	if loDigits == "" {
		return grammar.Quantifier{}, pos, xparse.FormatError(EmptyRangeOperandError, "empty quantifier operand at offset %d", pos)
	}
	lo, _ := strconv.Atoi(loDigits)

	if pos < len(expr) && expr[pos] == ':' {
		pos++
		hiDigits, newPos := scanDigits(expr, pos)
		pos = newPos
		if hiDigits == "" {
			return grammar.Quantifier{}, pos, xparse.FormatError(EmptyRangeOperandError, "empty quantifier operand at offset %d", pos)
		}
		hi, _ := strconv.Atoi(hiDigits)

		if pos < len(expr) && expr[pos] == ':' {
			return grammar.Quantifier{}, pos, xparse.FormatError(RepeatedRangeColonError, "':' repeated in quantifier at offset %d", pos)
		}
		if pos >= len(expr) || expr[pos] != '}' {
			return grammar.Quantifier{}, pos, xparse.FormatError(MalformedQuantifierError, "malformed quantifier starting at offset %d", start)
		}
		pos++

		if lo < 1 || lo > hi {
			return grammar.Quantifier{}, start, xparse.FormatError(InvalidRangeError, "invalid quantifier range {%d:%d} at offset %d", lo, hi, start)
		}
		return grammar.Quantifier{Kind: grammar.QRange, Lo: lo, Hi: hi}, pos, nil
	}

	if pos >= len(expr) || expr[pos] != '}' {
		return grammar.Quantifier{}, pos, xparse.FormatError(MalformedQuantifierError, "malformed quantifier starting at offset %d", start)
	}
	pos++

	return grammar.Quantifier{Kind: grammar.QExactly, Lo: lo, Hi: lo}, pos, nil
}
