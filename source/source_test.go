package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineColFirstLine(t *testing.T) {
	s := New("", []byte("hello\nworld"))
	line, col := s.LineCol(0)
	assert.Equal(t, 0, line)
	assert.Equal(t, 0, col)
}

func TestLineColAcrossLines(t *testing.T) {
	s := New("", []byte("abc\ndef\nghi"))

	line, col := s.LineCol(4)
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, col)

	line, col = s.LineCol(9)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)
}

func TestLineColClampsOutOfRange(t *testing.T) {
	s := New("", []byte("abc"))

	line, col := s.LineCol(-5)
	assert.Equal(t, 0, line)
	assert.Equal(t, 0, col)

	line, col = s.LineCol(1000)
	assert.Equal(t, 0, line)
	assert.Equal(t, 3, col)
}

func TestLineColMultiByteRunes(t *testing.T) {
	s := New("", []byte("héllo\nwörld"))
	// byte offset 10 is 3 bytes into the second line, just past "w"
	// (1 byte) and the 2-byte "ö": 2 runes, so col is 2.
	line, col := s.LineCol(len("héllo\n") + len("wö"))
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, col)
}

func TestNewPos(t *testing.T) {
	s := New("grammar.xp", []byte("one\ntwo"))
	p := NewPos(s, 4)
	assert.Equal(t, "grammar.xp", p.SourceName())
	assert.Equal(t, 1, p.Line())
	assert.Equal(t, 0, p.Col())
	assert.Equal(t, 4, p.Offset())
}
