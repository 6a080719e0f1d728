package record

import (
	"encoding/json"
	"time"
)

type jsonRecord struct {
	Timestamp string `json:"timestamp"`
	Module    string `json:"module"`
	Client    string `json:"client,omitempty"`
	Server    string `json:"server,omitempty"`
	Subject   string `json:"subject,omitempty"`

	UptimeSeconds *int64 `json:"uptime_seconds,omitempty"`
	ModuloSeconds *int64 `json:"modulo_seconds,omitempty"`
	RawFreq       string `json:"raw_freq,omitempty"`

	Link   string `json:"link,omitempty"`
	RawMTU *uint  `json:"raw_mtu,omitempty"`

	OS   string `json:"os,omitempty"`
	Dist string `json:"dist,omitempty"`

	Reason  string `json:"reason,omitempty"`
	RawHits string `json:"raw_hits,omitempty"`

	App    string `json:"app,omitempty"`
	Lang   string `json:"lang,omitempty"`
	Params string `json:"params,omitempty"`
	RawSig string `json:"raw_sig,omitempty"`

	Remain *string `json:"remain,omitempty"`
}

// MarshalJSON flattens the record and its payload into one object.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := jsonRecord{
		Timestamp: r.Timestamp.Format(time.RFC3339),
		Module:    r.Module(),
		Client:    r.Client.String(),
		Server:    r.Server.String(),
		Subject:   r.Subject.String(),
	}

	switch p := r.Payload.(type) {
	case Uptime:
		elapsed, modulo := int64(p.Elapsed/time.Second), int64(p.Modulo/time.Second)
		out.UptimeSeconds = &elapsed
		out.ModuloSeconds = &modulo
		out.RawFreq = p.RawFreq
	case MTU:
		mtu := p.RawMTU
		out.Link = p.Link
		out.RawMTU = &mtu
	case Syn:
		out.setTCP(p.TCPFingerprint)
	case SynAck:
		out.setTCP(p.TCPFingerprint)
	case HostChange:
		out.Reason = p.Reason
		out.RawHits = p.RawHits
	case HTTPRequest:
		out.setHTTP(p.HTTPFingerprint)
	case HTTPResponse:
		out.setHTTP(p.HTTPFingerprint)
	case Unparsed:
		remain := p.Remain
		out.Remain = &remain
	}

	return json.Marshal(out)
}

func (j *jsonRecord) setTCP(fp TCPFingerprint) {
	j.OS = fp.OS
	j.Dist = fp.Dist
	j.Params = fp.Params
	j.RawSig = fp.RawSig
}

func (j *jsonRecord) setHTTP(fp HTTPFingerprint) {
	j.App = fp.App
	j.Lang = fp.Lang
	j.Params = fp.Params
	j.RawSig = fp.RawSig
}
