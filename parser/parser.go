// Package parser implements the backtracking recursive-descent
// evaluator and the public facade: constructing a Parser from a
// grammar and exposing GenerateAST as the sole entry point for
// matching input against it.
package parser

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SimoneAncona/xparse"
	"github.com/SimoneAncona/xparse/grammar"
	"github.com/SimoneAncona/xparse/lexer"
	"github.com/SimoneAncona/xparse/loader"
	"github.com/SimoneAncona/xparse/source"
	"github.com/SimoneAncona/xparse/tree"
)

// Parser matches input against a Grammar built once at construction
// time. A Parser is not safe for concurrent calls to GenerateAST: the
// cursor, token stream, and error stack below are instance-mutable.
// The Grammar tables themselves are read-only and may be
// shared by several Parser instances, including across goroutines.
type Parser struct {
	grammar *grammar.Grammar
	id      uuid.UUID
	log     *logrus.Logger

	input    string
	src      *source.Source
	tokens   []*lexer.Token
	cursor   cursor
	errStack []*xparse.Error
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithLogger attaches a structured logger. Construction and
// GenerateAST entry/exit are logged at Debug/Info/Warn; nothing inside
// the backtracking evaluator itself logs, so a parse's hot path stays
// allocation-free regardless of the configured level. When omitted, a
// Parser logs to a Logger whose output is discarded, so the library is
// silent by default.
func WithLogger(l *logrus.Logger) Option {
	return func(p *Parser) {
		p.log = l
	}
}

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// New constructs a Parser for an already-built Grammar.
func New(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{grammar: g, id: uuid.New(), log: silentLogger()}
	for _, opt := range opts {
		opt(p)
	}

	p.log.WithFields(logrus.Fields{
		"parser_id": p.id,
		"terminals": len(g.Terminals),
		"rules":     len(g.Rules),
	}).Info("xparse: parser constructed")

	return p
}

// NewFromDocument loads doc via loader.Load and constructs a Parser
// from the resulting Grammar.
func NewFromDocument(doc loader.Document, opts ...Option) (*Parser, error) {
	g, err := loader.Load(doc)
	if err != nil {
		return nil, err
	}
	return New(g, opts...), nil
}

// NewFromString loads a grammar document held in a string (JSON or
// YAML, per f) and constructs a Parser from it.
func NewFromString(grammarSrc string, f loader.Format, opts ...Option) (*Parser, error) {
	var doc loader.Document
	var err error
	if f == loader.YAML {
		doc, err = loader.FromYAML([]byte(grammarSrc))
	} else {
		doc, err = loader.FromJSON([]byte(grammarSrc))
	}
	if err != nil {
		return nil, err
	}
	return NewFromDocument(doc, opts...)
}

// NewFromReader reads r to completion, decodes it as a grammar document
// (JSON or YAML, per f), and constructs a Parser from it.
func NewFromReader(r io.Reader, f loader.Format, opts ...Option) (*Parser, error) {
	doc, err := loader.FromReader(r, f)
	if err != nil {
		return nil, err
	}
	return NewFromDocument(doc, opts...)
}

// ID returns the Parser's instance identifier, stamped at construction
// and carried through every log field this package emits. It has no
// effect on matching semantics; it exists purely to correlate log lines
// across many Parser instances running concurrently.
func (p *Parser) ID() uuid.UUID {
	return p.id
}

// Grammar returns the Grammar this Parser matches against.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// GenerateAST is the sole evaluator entry point: it tokenizes
// input, resets the cursor, and attempts to match the grammar's start
// rule against the resulting token stream. On success it returns the
// root of the parse tree. On failure it returns a single top-level
// error; the full chronological error stack remains available via
// ErrorStack/LastError for diagnostics, and is not cleared by this
// call — call ResetErrors first for a clean stack.
func (p *Parser) GenerateAST(input string) (*tree.AST, error) {
	p.log.WithFields(logrus.Fields{
		"parser_id":  p.id,
		"input_size": len(input),
	}).Debug("xparse: generate_ast starting")

	start := p.grammar.StartRule()
	if start == nil {
		return nil, xparse.FormatError(TopLevelSyntaxError, "grammar has no rules")
	}

	tokens, err := lexer.Lex(input, p.grammar.Terminals)
	if err != nil {
		return nil, err
	}

	p.input = input
	p.src = source.New("", []byte(input))
	p.tokens = tokens
	p.cursor = cursor{}

	root, ok := p.analyzeRule(start)
	if !ok {
		last := p.LastError()
		p.log.WithFields(logrus.Fields{
			"parser_id": p.id,
		}).Warn("xparse: generate_ast failed")
		if last != nil {
			return nil, xparse.FormatError(TopLevelSyntaxError, "syntax error: %s", last.Message)
		}
		return nil, xparse.FormatError(TopLevelSyntaxError, "syntax error parsing input")
	}

	p.log.WithFields(logrus.Fields{
		"parser_id": p.id,
		"root_rule": root.RuleName(),
	}).Info("xparse: generate_ast succeeded")

	return root, nil
}
