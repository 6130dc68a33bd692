// Package loader decodes a grammar document (the external transport
// format carrying "terminals" and "rules" arrays) and builds a
// grammar.Grammar from it. The core package (grammar) never depends on
// a specific document encoding; loader is the only package that imports
// encoding/json and gopkg.in/yaml.v3.
package loader

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TerminalEntry is one element of a document's "terminals" array.
type TerminalEntry struct {
	Name  string `json:"name" yaml:"name"`
	Regex string `json:"regex" yaml:"regex"`
}

// RuleEntry is one element of a document's "rules" array.
type RuleEntry struct {
	Name        string   `json:"name" yaml:"name"`
	Expressions []string `json:"expressions" yaml:"expressions"`
}

// Document is the abstract shape required of a grammar transport
// format: two ordered arrays. The bool results report whether the
// underlying document actually carried the corresponding key,
// distinguishing "key absent" from "key present but empty".
type Document interface {
	Terminals() ([]TerminalEntry, bool)
	Rules() ([]RuleEntry, bool)
}

// rawDocument is the concrete Document built by every adapter below.
type rawDocument struct {
	terminals    []TerminalEntry
	rules        []RuleEntry
	hasTerminals bool
	hasRules     bool
}

func (d *rawDocument) Terminals() ([]TerminalEntry, bool) { return d.terminals, d.hasTerminals }
func (d *rawDocument) Rules() ([]RuleEntry, bool)         { return d.rules, d.hasRules }

// Format selects the encoding FromReader should use to decode a
// grammar document.
type Format int

const (
	JSON Format = iota
	YAML
)

type shape struct {
	Terminals []TerminalEntry `json:"terminals" yaml:"terminals"`
	Rules     []RuleEntry     `json:"rules" yaml:"rules"`
}

// FromJSON decodes a grammar document encoded as JSON.
func FromJSON(data []byte) (Document, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, errors.Wrap(err, "decoding grammar document as JSON")
	}

	var s shape
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decoding grammar document as JSON")
	}

	_, hasT := keys["terminals"]
	_, hasR := keys["rules"]
	return &rawDocument{terminals: s.Terminals, rules: s.Rules, hasTerminals: hasT, hasRules: hasR}, nil
}

// FromYAML decodes a grammar document encoded as YAML. Grounded on the
// pack's own use of gopkg.in/yaml.v3 for hand-authored configuration
// (open-policy-agent-opa, josephjohncox-effectus, ollama-ollama all
// depend on it): a grammar document is exactly that kind of artifact.
func FromYAML(data []byte) (Document, error) {
	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, errors.Wrap(err, "decoding grammar document as YAML")
	}

	var s shape
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decoding grammar document as YAML")
	}

	_, hasT := keys["terminals"]
	_, hasR := keys["rules"]
	return &rawDocument{terminals: s.Terminals, rules: s.Rules, hasTerminals: hasT, hasRules: hasR}, nil
}

// FromReader reads r to completion and decodes it using f. The whole
// document is always buffered first; streaming decode is not supported.
func FromReader(r io.Reader, f Format) (Document, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, errors.Wrap(err, "reading grammar document")
	}

	switch f {
	case YAML:
		return FromYAML(buf.Bytes())
	default:
		return FromJSON(buf.Bytes())
	}
}
