package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind names the sub-pattern that failed to match.
type ErrorKind uint8

const (
	KindTimestamp ErrorKind = iota + 1
	KindModule
	KindEndpoint
	KindSubject
	KindTag
	KindInteger
	KindDuration
	KindTrailing
)

var (
	ErrTimestamp = errors.New("malformed timestamp")
	ErrModule    = errors.New("malformed module tag")
	ErrEndpoint  = errors.New("malformed endpoint")
	ErrSubject   = errors.New("malformed subject")
	ErrTag       = errors.New("missing or malformed tag")
	ErrInteger   = errors.New("malformed integer")
	ErrDuration  = errors.New("malformed uptime")
	ErrTrailing  = errors.New("unexpected trailing input")
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimestamp:
		return "timestamp"
	case KindModule:
		return "module"
	case KindEndpoint:
		return "endpoint"
	case KindSubject:
		return "subject"
	case KindTag:
		return "tag"
	case KindInteger:
		return "integer"
	case KindDuration:
		return "duration"
	case KindTrailing:
		return "trailing"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTimestamp:
		return ErrTimestamp
	case KindModule:
		return ErrModule
	case KindEndpoint:
		return ErrEndpoint
	case KindSubject:
		return ErrSubject
	case KindTag:
		return ErrTag
	case KindInteger:
		return ErrInteger
	case KindDuration:
		return ErrDuration
	case KindTrailing:
		return ErrTrailing
	default:
		return nil
	}
}

// ParseError reports where and why a line failed to parse.
//
// Remaining is always a suffix of the parsed line, and Offset is its
// byte position within that line. errors.Is matches the sentinel of
// Kind (ErrEndpoint, ErrTag, ...) as well as the wrapped cause.
type ParseError struct {
	Kind      ErrorKind
	Tag       string
	Remaining string
	Offset    int
	Err       error
}

const maxExcerpt = 32

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("p0f: ")
	if s := e.Kind.sentinel(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString("parse error")
	}
	if e.Tag != "" {
		fmt.Fprintf(&b, " in %q", e.Tag)
	}
	fmt.Fprintf(&b, " at offset %d", e.Offset)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	near := e.Remaining
	if len(near) > maxExcerpt {
		near = near[:maxExcerpt] + "..."
	}
	fmt.Fprintf(&b, " (near %q)", near)
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// IsParseError reports whether err is a grammar failure, as opposed to an
// error coming from wherever the line was read.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// AsParseError unwraps err to a *ParseError.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	ok := errors.As(err, &pe)
	return pe, ok
}

func failure(kind ErrorKind, tag, remaining string, cause error) *ParseError {
	return &ParseError{Kind: kind, Tag: tag, Remaining: remaining, Err: cause}
}
