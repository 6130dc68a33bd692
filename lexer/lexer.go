package lexer

import (
	"regexp"
	"sort"

	"github.com/SimoneAncona/xparse"
	"github.com/SimoneAncona/xparse/grammar"
	"github.com/SimoneAncona/xparse/source"
)

// Error codes used by lexer, all of class xparse.LexicalErrors.
const (
	// InvalidTerminalPatternError marks a terminal whose regex could not
	// be compiled; Load already validates this, so it should not occur
	// outside of a Grammar built by hand rather than by loader.Load.
	InvalidTerminalPatternError = xparse.LexicalErrors + iota
)

// Lex matches every terminal rule's regex against input, performing a
// repeated non-overlapping search per rule, and returns the resulting
// tokens stable-sorted by Index ascending. Unlike a
// longest-match DFA lexer, this deliberately records every match of
// every terminal; tokens from different rules may share an index, and
// evaluator code disambiguates by matching Token.From().Name against
// the expected reference at the point of use.
func Lex(input string, terminals []grammar.TerminalRule) ([]*Token, error) {
	src := source.New("", []byte(input))
	var tokens []*Token

	for _, term := range terminals {
		re, err := regexp.Compile(term.Pattern)
		if err != nil {
			return nil, xparse.FormatError(InvalidTerminalPatternError, "invalid regular expression for terminal %q: %s", term.Name, err)
		}

		pos := 0
		for pos <= len(input) {
			loc := re.FindStringIndex(input[pos:])
			if loc == nil {
				break
			}
			from, to := pos+loc[0], pos+loc[1]
			line, col := src.LineCol(from)
			tokens = append(tokens, &Token{
				from:  term,
				index: from,
				line:  line,
				col:   col,
				value: input[from:to],
			})

			if to > from {
				pos = to
			} else {
				pos = from + 1
			}
		}
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].index < tokens[j].index
	})

	return tokens, nil
}
