// Package source supplies log lines to the parser.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultMaxLineBytes bounds a single line. p0f raw HTTP signatures can be
// long, so this is well above bufio's default token size.
const DefaultMaxLineBytes = 1 << 20

// ReadError is an I/O failure while reading input. It is never a
// *parser.ParseError, so callers can tell the two apart.
type ReadError struct {
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read line %d: %v", e.Line, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Line is one line of input with its 1-based position.
type Line struct {
	Number int
	Text   string
}

// Lines reads newline-terminated lines from r. Line endings are stripped.
type Lines struct {
	scanner *bufio.Scanner
	n       int
	err     error
}

func NewLines(r io.Reader, maxLineBytes int) *Lines {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	// bufio takes the larger of the two sizes as the limit.
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, maxLineBytes)), maxLineBytes)
	return &Lines{scanner: sc}
}

// Next returns the next line. It returns io.EOF when input is exhausted
// and a *ReadError when reading fails.
func (l *Lines) Next() (Line, error) {
	if l.err != nil {
		return Line{}, l.err
	}
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			l.err = &ReadError{Line: l.n + 1, Err: err}
		} else {
			l.err = io.EOF
		}
		return Line{}, l.err
	}
	l.n++
	return Line{Number: l.n, Text: l.scanner.Text()}, nil
}

// File is an opened input file.
type File struct {
	*Lines
	closer io.Closer
}

func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// Open opens path for reading. "-" reads standard input, which is not
// closed by Close.
func Open(path string, maxLineBytes int) (*File, error) {
	if path == "" {
		return nil, errors.New("no input file")
	}
	if path == "-" {
		return &File{Lines: NewLines(os.Stdin, maxLineBytes)}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Line: 0, Err: err}
	}
	return &File{Lines: NewLines(f, maxLineBytes), closer: f}, nil
}
