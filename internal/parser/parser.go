// Package parser turns p0f log lines into records.
//
// A line has a fixed header followed by module specific tags:
//
//	[2020/04/17 11:39:16] mod=syn+ack|cli=192.168.0.34/35822|srv=173.194.76.189/443|subj=srv|os=???|dist=22|params=none|raw_sig=...
//
// Parsing is pure and allocation-local, so lines may be parsed from any
// number of goroutines at once.
package parser

import (
	"errors"
	"strings"
	"time"

	"github.com/LinkTsang/p0f-observer/internal/record"
)

type Parser struct {
	loc *time.Location
}

type Option func(*Parser)

// WithLocation sets the zone p0f's wall-clock timestamps are read in.
// The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{loc: time.UTC}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// ParseLine parses one line with timestamps read as UTC.
func ParseLine(line string) (*record.Record, error) {
	return defaultParser.ParseLine(line)
}

// ParseLine parses one line. A trailing "\n" or "\r\n" is ignored. The
// returned error, if any, is a *ParseError.
func (p *Parser) ParseLine(line string) (*record.Record, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	r, err := p.parse(line)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Offset = len(line) - len(pe.Remaining)
		}
		return nil, err
	}
	return r, nil
}

func (p *Parser) parse(line string) (*record.Record, error) {
	raw, rest, err := bracketed(line)
	if err != nil {
		return nil, err
	}
	ts, err := decodeTimestamp(raw, p.loc)
	if err != nil {
		return nil, failure(KindTimestamp, "", line, err)
	}

	tag, rest, err := module(skipBlank(rest))
	if err != nil {
		return nil, err
	}
	kind, known := record.KindOf(tag)
	if !known {
		return &record.Record{
			Timestamp: ts,
			Payload:   record.Unparsed{Tag: tag, Remain: rest},
		}, nil
	}

	r := &record.Record{Timestamp: ts}
	if r.Client, rest, err = endpointField(rest, "cli"); err != nil {
		return nil, err
	}
	if r.Server, rest, err = endpointField(rest, "srv"); err != nil {
		return nil, err
	}
	if r.Subject, rest, err = subjectField(rest); err != nil {
		return nil, err
	}
	if r.Payload, rest, err = moduleParserFor(kind)(rest); err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, failure(KindTrailing, "", rest, errors.New("line not fully consumed"))
	}
	return r, nil
}
