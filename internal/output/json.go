package output

import (
	"encoding/json"
	"io"

	"github.com/LinkTsang/p0f-observer/internal/parser"
	"github.com/LinkTsang/p0f-observer/internal/record"
)

// JSONOutput writes records as JSON lines.
type JSONOutput struct {
	enc *json.Encoder
}

func NewJSONOutput(w io.Writer) *JSONOutput {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONOutput{enc: enc}
}

func (o *JSONOutput) Consume(r *record.Record) error {
	return o.enc.Encode(r)
}

type jsonFailure struct {
	Line   int    `json:"line"`
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Tag    string `json:"tag,omitempty"`
	Offset *int   `json:"offset,omitempty"`
	Raw    string `json:"raw"`
}

func (o *JSONOutput) ConsumeError(line int, raw string, err error) error {
	f := jsonFailure{Line: line, Error: err.Error(), Kind: errorKind(err), Raw: raw}
	if pe, ok := parser.AsParseError(err); ok {
		offset := pe.Offset
		f.Tag = pe.Tag
		f.Offset = &offset
	}
	return o.enc.Encode(f)
}

func (o *JSONOutput) Close() error {
	return nil
}
