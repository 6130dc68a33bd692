// Package grammar defines the data model produced by loading a grammar
// document: terminal rules, composite rules, and the compiled rule
// expressions that make up a composite rule's body.
//
// Values built by this package are read-only once Load returns; the
// lexer and parser packages only ever read them.
package grammar

// TerminalRule is a named regular expression that the lexer matches
// against input to produce tokens.
type TerminalRule struct {
	Name    string
	Pattern string
}

// QuantifierKind tags the shape of a Quantifier.
type QuantifierKind int

const (
	// QNone requires exactly one match.
	QNone QuantifierKind = iota
	// QZeroOrOne matches the reference at most once.
	QZeroOrOne
	// QZeroOrMore matches the reference any number of times, never fails.
	QZeroOrMore
	// QOneOrMore matches the reference at least once.
	QOneOrMore
	// QExactly matches the reference exactly N times.
	QExactly
	// QRange matches the reference between Lo and Hi times, inclusive.
	QRange
)

// Quantifier describes how many times a reference may be matched.
// Lo and Hi are only meaningful for QExactly (Lo==Hi==N) and QRange.
type Quantifier struct {
	Kind   QuantifierKind
	Lo, Hi int
}

// None reports whether q is the default "match exactly once" quantifier.
func (q Quantifier) None() bool {
	return q.Kind == QNone
}

// CaseMode is the case-sensitivity flag carried by a RuleExpression.
type CaseMode int

const (
	// CaseClear performs ordinary case-sensitive matching.
	CaseClear CaseMode = iota
	// CaseSoft matches regardless of case, preserving the matched text.
	CaseSoft
	// CaseStrict matches regardless of case, normalizing matched text to lower case.
	CaseStrict
)

// Flags carried by a whole RuleExpression, set by the '[...]' prefix of
// a rule-expression string.
type Flags struct {
	Case         CaseMode
	Boundary     bool
	IgnoreSpaces bool
}

// ElementKind tags the variant held by an ExpressionElement.
type ElementKind int

const (
	ElemConstant ElementKind = iota
	ElemReference
	ElemAlternative
)

// AltRef is a single branch of an Alternative element: a target name
// together with the quantifier attached to that branch (Alternative
// branches may only carry QExactly/QRange quantifiers, see rel).
type AltRef struct {
	Target     string
	Quantifier Quantifier
}

// ExpressionElement is a tagged union. Exactly one of Literal, Target, or
// Alts is meaningful, selected by Kind:
//
//	ElemConstant:    Literal holds the decoded literal text.
//	ElemReference:   Target names the referenced rule/terminal; Quantifier applies.
//	ElemAlternative: Alts holds two or more candidate references.
type ExpressionElement struct {
	Kind       ElementKind
	Literal    string
	Target     string
	Quantifier Quantifier
	Alts       []AltRef
}

// RuleExpression is one compiled alternative of a Rule's body: a flag
// set that applies to the whole expression and the ordered elements
// that must all match consecutively.
type RuleExpression struct {
	Flags    Flags
	Elements []ExpressionElement
}

// Rule is a named production. It matches if any of its Expressions
// matches, trying them in order and backtracking between attempts.
type Rule struct {
	Name        string
	Expressions []RuleExpression
}

// Grammar is the read-only table pair built by Load: terminal rules in
// declaration order (built-ins first) and composite rules in document
// order. The first entry of Rules is the start rule.
type Grammar struct {
	Terminals []TerminalRule
	Rules     []Rule
}

// FindTerminal returns the terminal named name, searched from the end of
// the table backwards, so a user terminal declared after a built-in of
// the same name shadows it. The ok result is false if no terminal by
// that name exists.
func (g *Grammar) FindTerminal(name string) (TerminalRule, bool) {
	for i := len(g.Terminals) - 1; i >= 0; i-- {
		if g.Terminals[i].Name == name {
			return g.Terminals[i], true
		}
	}
	return TerminalRule{}, false
}

// FindRule returns the first rule named name. Rules are searched before
// terminals at reference-resolution time (see Resolve), so a rule name
// shadows a terminal of the same name.
func (g *Grammar) FindRule(name string) (*Rule, bool) {
	for i := range g.Rules {
		if g.Rules[i].Name == name {
			return &g.Rules[i], true
		}
	}
	return nil, false
}

// RefKind tags what a reference resolves to.
type RefKind int

const (
	RefNone RefKind = iota
	RefRule
	RefTerminal
)

// Resolve looks up name: rules are searched before terminals, so a
// rule shadows a terminal of the same name.
func (g *Grammar) Resolve(name string) RefKind {
	if _, ok := g.FindRule(name); ok {
		return RefRule
	}
	if _, ok := g.FindTerminal(name); ok {
		return RefTerminal
	}
	return RefNone
}

// StartRule returns the grammar's entry point: the first declared rule.
func (g *Grammar) StartRule() *Rule {
	if len(g.Rules) == 0 {
		return nil
	}
	return &g.Rules[0]
}
