package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
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
	assert.Error(t, err)
}

func TestGetRequiredText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetRequiredText(rdr("\n  \nann\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "ann", got)
	assert.Equal(t, 2, strings.Count(out.String(), "A value is required."))

	_, err = GetRequiredText(rdr("\n\n\nlate\n"), "Name?", &out)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	var out bytes.Buffer

	readPassword = func(int) ([]byte, error) { return []byte("secret1"), nil }
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret1"), pw)

	readPassword = func(int) ([]byte, error) { return nil, nil }
	_, err = GetPassword(&out)
	assert.ErrorIs(t, err, ErrEmptyInput)

	boom := errors.New("boom")
	readPassword = func(int) ([]byte, error) { return nil, boom }
	_, err = GetPassword(&out)
	assert.ErrorIs(t, err, boom)
}

func TestGetFields(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]any
	}{
		{"unix newlines", "name=Ann\nemail = a@b.com\n\n", map[string]any{"name": "Ann", "email": "a@b.com"}},
		{"windows newlines", "name=Ann\r\n\r\n", map[string]any{"name": "Ann"}},
		{"immediate blank line", "\n", map[string]any{}},
		{"eof without blank line", "name=Ann", map[string]any{"name": "Ann"}},
		{"malformed lines skipped", "junk\n=x\nname=Ann\n\n", map[string]any{"name": "Ann"}},
		{"value with equals", "name=a=b\n\n", map[string]any{"name": "a=b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetFields(rdr(tc.input), "Fields", &out)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
