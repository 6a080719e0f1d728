package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/LinkTsang/p0f-observer/internal/parser"
	"github.com/LinkTsang/p0f-observer/internal/record"
)

const textTimeFormat = "2006-01-02 15:04:05 MST"

// TextOutput writes one human readable line per record.
type TextOutput struct {
	w        io.Writer
	location *time.Location
	module   *color.Color
	failure  *color.Color
}

func NewTextOutput(w io.Writer, location *time.Location, colored bool) *TextOutput {
	if location == nil {
		location = time.Local
	}
	o := &TextOutput{
		w:        w,
		location: location,
		module:   color.New(color.Bold),
		failure:  color.New(color.FgRed),
	}
	if colored {
		o.module.EnableColor()
		o.failure.EnableColor()
	} else {
		o.module.DisableColor()
		o.failure.DisableColor()
	}
	return o
}

func (o *TextOutput) Consume(r *record.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", r.Timestamp.In(o.location).Format(textTimeFormat), o.module.Sprint(r.Module()))
	if r.HasEndpoints() {
		fmt.Fprintf(&b, " %s -> %s subj=%s", r.Client, r.Server, r.Subject)
	}
	for _, f := range payloadFields(r.Payload) {
		fmt.Fprintf(&b, " %s=%s", f[0], f[1])
	}
	b.WriteByte('\n')
	_, err := io.WriteString(o.w, b.String())
	return err
}

func (o *TextOutput) ConsumeError(line int, raw string, err error) error {
	_, werr := o.failure.Fprintf(o.w, "line %d: %v\n", line, err)
	return werr
}

func (o *TextOutput) Close() error {
	return nil
}

func payloadFields(p record.Payload) [][2]string {
	switch p := p.(type) {
	case record.Uptime:
		return [][2]string{
			{"uptime", p.Elapsed.String()},
			{"modulo", p.Modulo.String()},
			{"raw_freq", p.RawFreq},
		}
	case record.MTU:
		return [][2]string{{"link", p.Link}, {"raw_mtu", strconv.FormatUint(uint64(p.RawMTU), 10)}}
	case record.Syn:
		return tcpFields(p.TCPFingerprint)
	case record.SynAck:
		return tcpFields(p.TCPFingerprint)
	case record.HostChange:
		return [][2]string{{"reason", p.Reason}, {"raw_hits", p.RawHits}}
	case record.HTTPRequest:
		return httpFields(p.HTTPFingerprint)
	case record.HTTPResponse:
		return httpFields(p.HTTPFingerprint)
	case record.Unparsed:
		return [][2]string{{"remain", strconv.Quote(p.Remain)}}
	default:
		return nil
	}
}

func tcpFields(fp record.TCPFingerprint) [][2]string {
	return [][2]string{{"os", fp.OS}, {"dist", fp.Dist}, {"params", fp.Params}, {"raw_sig", fp.RawSig}}
}

func httpFields(fp record.HTTPFingerprint) [][2]string {
	return [][2]string{{"app", fp.App}, {"lang", fp.Lang}, {"params", fp.Params}, {"raw_sig", fp.RawSig}}
}

// errorKind is the parse error kind name, or "read" for anything else.
func errorKind(err error) string {
	if pe, ok := parser.AsParseError(err); ok {
		return pe.Kind.String()
	}
	return "read"
}
