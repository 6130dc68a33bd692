package loader

import (
	"regexp"

	"github.com/SimoneAncona/xparse"
	"github.com/SimoneAncona/xparse/grammar"
	"github.com/SimoneAncona/xparse/rel"
)

// Error codes used by loader, all of class xparse.LoadErrors.
const (
	MissingTerminalsError = xparse.LoadErrors + iota
	MissingRulesError
	EmptyRulesError
	InvalidTerminalRegexError
	UndefinedReferenceError
)

// Load validates doc and builds a grammar.Grammar from it. A missing
// "terminals" or "rules" key and an empty rules array are rejected
// before anything is built. Build order:
//
//  1. user terminals are appended to the terminal table after the
//     built-in defaults, in document order;
//  2. every rule expression string is compiled via rel.Compile;
//  3. every reference emitted by any compiled expression is checked to
//     resolve to a rule, a user terminal, or a built-in terminal.
func Load(doc Document) (*grammar.Grammar, error) {
	terminalEntries, hasTerminals := doc.Terminals()
	if !hasTerminals {
		return nil, xparse.FormatError(MissingTerminalsError, "grammar document is missing the \"terminals\" key")
	}

	ruleEntries, hasRules := doc.Rules()
	if !hasRules {
		return nil, xparse.FormatError(MissingRulesError, "grammar document is missing the \"rules\" key")
	}
	if len(ruleEntries) == 0 {
		return nil, xparse.FormatError(EmptyRulesError, "grammar document declares no rules")
	}

	terminals := make([]grammar.TerminalRule, 0, len(grammar.BuiltinTerminals)+len(terminalEntries))
	terminals = append(terminals, grammar.BuiltinTerminals...)
	for _, te := range terminalEntries {
		if _, err := regexp.Compile(te.Regex); err != nil {
			return nil, xparse.FormatError(InvalidTerminalRegexError, "invalid regular expression for terminal %q: %s", te.Name, err)
		}
		terminals = append(terminals, grammar.TerminalRule{Name: te.Name, Pattern: te.Regex})
	}

	rules := make([]grammar.Rule, 0, len(ruleEntries))
	for _, re := range ruleEntries {
		compiled := make([]grammar.RuleExpression, 0, len(re.Expressions))
		for _, exprSrc := range re.Expressions {
			expr, err := rel.Compile(exprSrc)
			if err != nil {
				code := xparse.RelErrors
				if xe, ok := err.(*xparse.Error); ok {
					code = xe.Code
				}
				return nil, xparse.FormatError(code, "%s in rule %q", err, re.Name)
			}
			compiled = append(compiled, *expr)
		}
		rules = append(rules, grammar.Rule{Name: re.Name, Expressions: compiled})
	}

	g := &grammar.Grammar{Terminals: terminals, Rules: rules}

	if err := checkReferences(g); err != nil {
		return nil, err
	}

	return g, nil
}

func checkReferences(g *grammar.Grammar) error {
	for _, r := range g.Rules {
		for _, expr := range r.Expressions {
			for _, elem := range expr.Elements {
				switch elem.Kind {
				case grammar.ElemReference:
					if g.Resolve(elem.Target) == grammar.RefNone {
						return xparse.FormatError(UndefinedReferenceError, "undefined reference to %q in rule %q", elem.Target, r.Name)
					}
				case grammar.ElemAlternative:
					for _, alt := range elem.Alts {
						if g.Resolve(alt.Target) == grammar.RefNone {
							return xparse.FormatError(UndefinedReferenceError, "undefined reference to %q in rule %q", alt.Target, r.Name)
						}
					}
				}
			}
		}
	}
	return nil
}
