package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeConsoleInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "y", "y"},
		{"surrounding whitespace kept", "  bar \t", "  bar \t"},
		{"cursor position report", "\x1b[12;1R3", "3"},
		{"caret notation", "^[[24;80R0x10", "0x10"},
		{"control characters", "a\x07b\x00", "ab"},
		{"carriage return", "n\r", "n"},
		{"spaces only", "   ", "   "},
		{"empty", "\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeConsoleInput(tt.raw))
		})
	}
}

func TestReaderReadsLines(t *testing.T) {
	var out bytes.Buffer
	r := NewPlain(strings.NewReader("y\n  bar  \r\n\nlast"), &out)

	for _, want := range []string{"y", "  bar  ", "", "last"} {
		got, err := r.ReadLine("> ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := r.ReadLine("> ")
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, "> > > > > \n", out.String())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestReaderWrapsReadErrors(t *testing.T) {
	r := NewPlain(failingReader{}, io.Discard)
	_, err := r.ReadLine("? ")
	require.Error(t, err)
	assert.False(t, errors.Is(err, io.EOF))
	assert.Contains(t, err.Error(), "device gone")
}

func TestSurveySelectorRejectsEmptyOptions(t *testing.T) {
	_, err := SurveySelector{}.Select("pick", nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no options")
}
