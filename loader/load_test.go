package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMinimalGrammar(t *testing.T) {
	doc, err := FromJSON([]byte(`{
		"terminals": [],
		"rules": [{"name": "hi", "expressions": ["hello"]}]
	}`))
	require.NoError(t, err)

	g, err := Load(doc)
	require.NoError(t, err)
	assert.Equal(t, "hi", g.StartRule().Name)
}

func TestLoadMissingTerminalsKey(t *testing.T) {
	doc, err := FromJSON([]byte(`{"rules": [{"name": "hi", "expressions": ["hello"]}]}`))
	require.NoError(t, err)

	_, err = Load(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminals")
}

func TestLoadMissingRulesKey(t *testing.T) {
	doc, err := FromJSON([]byte(`{"terminals": []}`))
	require.NoError(t, err)

	_, err = Load(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules")
}

func TestLoadEmptyRulesArrayRejected(t *testing.T) {
	doc, err := FromJSON([]byte(`{"terminals": [], "rules": []}`))
	require.NoError(t, err)

	_, err = Load(doc)
	require.Error(t, err)
}

func TestLoadUndefinedReference(t *testing.T) {
	doc, err := FromJSON([]byte(`{
		"terminals": [],
		"rules": [{"name": "def", "expressions": ["<foo>"]}]
	}`))
	require.NoError(t, err)

	_, err = Load(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foo")
	assert.Contains(t, err.Error(), "def")
}

func TestLoadReferencesBuiltinTerminal(t *testing.T) {
	doc, err := FromJSON([]byte(`{
		"terminals": [],
		"rules": [{"name": "def", "expressions": ["def <identifier>"]}]
	}`))
	require.NoError(t, err)

	g, err := Load(doc)
	require.NoError(t, err)
	_, ok := g.FindTerminal("identifier")
	assert.True(t, ok)
}

func TestLoadUserTerminalShadowsBuiltin(t *testing.T) {
	doc, err := FromJSON([]byte(`{
		"terminals": [{"name": "identifier", "regex": "[A-Z]+"}],
		"rules": [{"name": "def", "expressions": ["<identifier>"]}]
	}`))
	require.NoError(t, err)

	g, err := Load(doc)
	require.NoError(t, err)
	last, _ := g.FindTerminal("identifier")
	assert.Equal(t, "[A-Z]+", last.Pattern)
}

func TestLoadFromYAML(t *testing.T) {
	doc, err := FromYAML([]byte(`
terminals: []
rules:
  - name: hi
    expressions: ["hello"]
`))
	require.NoError(t, err)

	g, err := Load(doc)
	require.NoError(t, err)
	assert.Equal(t, "hi", g.StartRule().Name)
}

func TestLoadInvalidTerminalRegexRejected(t *testing.T) {
	doc, err := FromJSON([]byte(`{
		"terminals": [{"name": "bad", "regex": "("}],
		"rules": [{"name": "hi", "expressions": ["hello"]}]
	}`))
	require.NoError(t, err)

	_, err = Load(doc)
	require.Error(t, err)
}
