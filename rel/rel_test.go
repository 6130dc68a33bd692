package rel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SimoneAncona/xparse/grammar"
)

func TestCompileConstantOnly(t *testing.T) {
	expr, err := Compile("hello")
	require.NoError(t, err)
	require.Len(t, expr.Elements, 1)
	assert.Equal(t, grammar.ElemConstant, expr.Elements[0].Kind)
	assert.Equal(t, "hello", expr.Elements[0].Literal)
}

func TestCompileReferenceWithQuantifiers(t *testing.T) {
	cases := []struct {
		src  string
		kind grammar.QuantifierKind
		lo   int
		hi   int
	}{
		{"<digit>", grammar.QNone, 0, 0},
		{"<digit?>", grammar.QZeroOrOne, 0, 0},
		{"<digit*>", grammar.QZeroOrMore, 0, 0},
		{"<digit+>", grammar.QOneOrMore, 0, 0},
		{"<digit{3}>", grammar.QExactly, 3, 3},
		{"<digit{1:4}>", grammar.QRange, 1, 4},
	}

	for _, c := range cases {
		expr, err := Compile(c.src)
		require.NoError(t, err, c.src)
		require.Len(t, expr.Elements, 1, c.src)
		elem := expr.Elements[0]
		assert.Equal(t, grammar.ElemReference, elem.Kind, c.src)
		assert.Equal(t, "digit", elem.Target, c.src)
		assert.Equal(t, c.kind, elem.Quantifier.Kind, c.src)
		assert.Equal(t, c.lo, elem.Quantifier.Lo, c.src)
		assert.Equal(t, c.hi, elem.Quantifier.Hi, c.src)
	}
}

func TestCompileMixedSequence(t *testing.T) {
	expr, err := Compile("def <identifier>")
	require.NoError(t, err)
	require.Len(t, expr.Elements, 2)
	assert.Equal(t, "def ", expr.Elements[0].Literal)
	assert.Equal(t, "identifier", expr.Elements[1].Target)
}

func TestCompileAlternative(t *testing.T) {
	expr, err := Compile("<yes|no>")
	require.NoError(t, err)
	require.Len(t, expr.Elements, 1)
	elem := expr.Elements[0]
	require.Equal(t, grammar.ElemAlternative, elem.Kind)
	require.Len(t, elem.Alts, 2)
	assert.Equal(t, "yes", elem.Alts[0].Target)
	assert.Equal(t, "no", elem.Alts[1].Target)
}

func TestCompileAlternativeWithRangeQuantifier(t *testing.T) {
	expr, err := Compile("<a|b|c{2}>")
	require.NoError(t, err)
	elem := expr.Elements[0]
	require.Len(t, elem.Alts, 3)
	for _, alt := range elem.Alts {
		assert.Equal(t, grammar.QExactly, alt.Quantifier.Kind)
		assert.Equal(t, 2, alt.Quantifier.Lo)
	}
}

func TestCompileAlternativeRejectsStarQuantifier(t *testing.T) {
	_, err := Compile("<a|b*>")
	require.Error(t, err)
}

func TestCompileEscapes(t *testing.T) {
	expr, err := Compile(`a\nb\<c\>d`)
	require.NoError(t, err)
	require.Len(t, expr.Elements, 1)
	assert.Equal(t, "a\nb<c>d", expr.Elements[0].Literal)
}

func TestCompileUnescapedCloseIsSyntaxError(t *testing.T) {
	_, err := Compile("a>b")
	require.Error(t, err)
}

func TestCompileFlags(t *testing.T) {
	expr, err := Compile("[isb]foo")
	require.NoError(t, err)
	assert.Equal(t, grammar.CaseSoft, expr.Flags.Case)
	assert.True(t, expr.Flags.IgnoreSpaces)
	assert.True(t, expr.Flags.Boundary)
}

func TestCompileFlagsIncompatibleCase(t *testing.T) {
	_, err := Compile("[iI]foo")
	require.Error(t, err)
}

func TestCompileFlagsUnterminated(t *testing.T) {
	_, err := Compile("[is")
	require.Error(t, err)
}

func TestCompileRangeLoGreaterThanHiRejected(t *testing.T) {
	_, err := Compile("<digit{5:2}>")
	require.Error(t, err)
}

func TestCompileRangeRepeatedColonRejected(t *testing.T) {
	_, err := Compile("<digit{1:2:3}>")
	require.Error(t, err)
}

func TestCompileEmptyRangeOperandRejected(t *testing.T) {
	_, err := Compile("<digit{}>")
	require.Error(t, err)
}

func TestCompileUnterminatedReference(t *testing.T) {
	_, err := Compile("<digit")
	require.Error(t, err)
}

func TestCompileEmptyExpressionRejected(t *testing.T) {
	_, err := Compile("")
	require.Error(t, err)
}
