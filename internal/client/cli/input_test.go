package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword_Pipe(t *testing.T) {
	var out bytes.Buffer
	got, err := GetPassword(rdr(" secret with spaces \r\nnext\n"), &out, false)
	require.NoError(t, err)
	assert.Equal(t, " secret with spaces ", got)
	assert.True(t, strings.HasPrefix(out.String(), "Enter password: "))
}

func TestGetPassword_Terminal(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("hunter2"), nil }
	var out bytes.Buffer
	got, err := GetPassword(rdr("ignored\n"), &out, true)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(rdr(""), &out, true)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "stop on empty line",
			input:    "a.com\nb.com\n\nc.com\n",
			expected: []string{"a.com", "b.com"},
		},
		{
			name:     "windows newlines",
			input:    "a=1\r\nb=2\r\n\r\n",
			expected: []string{"a=1", "b=2"},
		},
		{
			name:     "eof without trailing newline",
			input:    "only.com",
			expected: []string{"only.com"},
		},
		{
			name:     "immediate blank line",
			input:    "\n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tt.input), "Enter domains", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Contains(t, out.String(), "Enter domains")
		})
	}
}

func TestGetMultiline_ReturnsReadErrors(t *testing.T) {
	boom := errors.New("stdin closed")
	r := bufio.NewReader(io.MultiReader(strings.NewReader("a.com\n"), iotest.ErrReader(boom)))

	got, err := GetMultiline(r, "Enter domains", &bytes.Buffer{})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}
