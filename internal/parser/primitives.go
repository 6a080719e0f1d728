package parser

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/google/gopacket/layers"

	"github.com/LinkTsang/p0f-observer/internal/record"
)

// Each primitive takes the unconsumed input and returns the value and the
// input left after it. On failure nothing is consumed: the returned rest is
// the input as given and the error's Remaining points into it.

// bracketed consumes "[...]" and returns the text between the brackets.
func bracketed(in string) (string, string, error) {
	if !strings.HasPrefix(in, "[") {
		return "", in, failure(KindTimestamp, "", in, errors.New("expected '['"))
	}
	end := strings.IndexByte(in, ']')
	if end < 0 {
		return "", in, failure(KindTimestamp, "", in, errors.New("missing closing ']'"))
	}
	if end == 1 {
		return "", in, failure(KindTimestamp, "", in, errors.New("empty timestamp"))
	}
	return in[1:end], in[end+1:], nil
}

func skipBlank(in string) string {
	return strings.TrimLeft(in, " \t")
}

// module consumes "mod=<tag>" where the tag runs to the next '|' or the end
// of the line.
func module(in string) (string, string, error) {
	const prefix = "mod="
	if !strings.HasPrefix(in, prefix) {
		return "", in, failure(KindModule, "mod", in, fmt.Errorf("expected %q", prefix))
	}
	v := in[len(prefix):]
	tag, rest := v, ""
	if i := strings.IndexByte(v, '|'); i >= 0 {
		tag, rest = v[:i], v[i:]
	}
	if tag == "" {
		return "", in, failure(KindModule, "mod", in, errors.New("empty module tag"))
	}
	return tag, rest, nil
}

// span tells a tag primitive where its value stops.
type span uint8

const (
	toPipe span = iota
	toEOL
)

// field consumes "|<name>=<value>". Raw tags are logged last and may
// contain '|' themselves, so they are read with toEOL.
func field(in, name string, until span) (string, string, error) {
	prefix := "|" + name + "="
	if !strings.HasPrefix(in, prefix) {
		return "", in, failure(KindTag, name, in, fmt.Errorf("expected %q", prefix))
	}
	v := in[len(prefix):]
	val, rest := v, ""
	if until == toPipe {
		if i := strings.IndexByte(v, '|'); i >= 0 {
			val, rest = v[:i], v[i:]
		}
	}
	if val == "" {
		return "", in, failure(KindTag, name, in, errors.New("empty value"))
	}
	return val, rest, nil
}

// valueOf returns the input positioned at the value of a tag that field
// has already matched. Value-level failures are reported from there.
func valueOf(in, name string) string {
	return in[len(name)+2:]
}

// decimal parses an unsigned decimal of the given bit size. Signs,
// underscores and whitespace are rejected.
func decimal(s string, bits int) (uint64, error) {
	if s == "" {
		return 0, errors.New("expected digits")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("unexpected %q at position %d", s[i], i)
		}
	}
	n, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			return 0, fmt.Errorf("%s does not fit in %d bits: %w", s, bits, ne.Err)
		}
		return 0, err
	}
	return n, nil
}

// endpoint parses "<addr>/<port>", splitting on the first '/'.
func endpoint(s string) (record.Endpoint, error) {
	host, port, ok := strings.Cut(s, "/")
	if !ok {
		return record.Endpoint{}, errors.New("missing '/' between address and port")
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return record.Endpoint{}, err
	}
	p, err := decimal(port, 16)
	if err != nil {
		return record.Endpoint{}, fmt.Errorf("port: %w", err)
	}
	return record.Endpoint{Addr: addr, Port: layers.TCPPort(p)}, nil
}

func endpointField(in, name string) (record.Endpoint, string, error) {
	val, rest, err := field(in, name, toPipe)
	if err != nil {
		return record.Endpoint{}, in, err
	}
	ep, err := endpoint(val)
	if err != nil {
		return record.Endpoint{}, in, failure(KindEndpoint, name, valueOf(in, name), err)
	}
	return ep, rest, nil
}

func subjectField(in string) (record.Subject, string, error) {
	const name = "subj"
	val, rest, err := field(in, name, toPipe)
	if err != nil {
		return record.SubjectUnknown, in, err
	}
	switch val {
	case "cli":
		return record.SubjectClient, rest, nil
	case "srv":
		return record.SubjectServer, rest, nil
	default:
		return record.SubjectUnknown, in, failure(KindSubject, name, valueOf(in, name),
			fmt.Errorf("expected \"cli\" or \"srv\", got %q", val))
	}
}

// fields consumes the named tags in order. The last one runs to the end of
// the line.
func fields(in string, names ...string) ([]string, string, error) {
	vals := make([]string, len(names))
	rest := in
	for i, name := range names {
		until := toPipe
		if i == len(names)-1 {
			until = toEOL
		}
		val, next, err := field(rest, name, until)
		if err != nil {
			return nil, in, err
		}
		vals[i], rest = val, next
	}
	return vals, rest, nil
}
