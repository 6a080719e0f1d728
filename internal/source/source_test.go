package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, l *Lines) []Line {
	t.Helper()
	var out []Line
	for {
		line, err := l.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, line)
	}
}

func TestLines(t *testing.T) {
	l := NewLines(strings.NewReader("a\r\nb\n\nc"), 0)
	got := collect(t, l)
	assert.Equal(t, []Line{{1, "a"}, {2, "b"}, {3, ""}, {4, "c"}}, got)

	_, err := l.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLinesTooLong(t *testing.T) {
	l := NewLines(strings.NewReader("short\n"+strings.Repeat("x", 64)+"\n"), 16)

	line, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, "short", line.Text)

	_, err = l.Next()
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 2, re.Line)

	_, again := l.Next()
	assert.Equal(t, err, again)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLinesReadError(t *testing.T) {
	_, err := NewLines(failingReader{}, 0).Next()
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p0f.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o600))

	f, err := Open(path, 0)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, collect(t, f.Lines), 2)

	_, err = Open(filepath.Join(t.TempDir(), "missing.log"), 0)
	var re *ReadError
	assert.ErrorAs(t, err, &re)

	_, err = Open("", 0)
	assert.Error(t, err)

	stdin, err := Open("-", 0)
	require.NoError(t, err)
	assert.NoError(t, stdin.Close())
}
