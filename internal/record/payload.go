package record

import "time"

// Kind identifies the payload variant of a Record.
type Kind uint8

const (
	KindUnparsed Kind = iota
	KindUptime
	KindMTU
	KindSyn
	KindSynAck
	KindHostChange
	KindHTTPRequest
	KindHTTPResponse
)

// String returns the p0f module tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindUptime:
		return "uptime"
	case KindMTU:
		return "mtu"
	case KindSyn:
		return "syn"
	case KindSynAck:
		return "syn+ack"
	case KindHostChange:
		return "host change"
	case KindHTTPRequest:
		return "http request"
	case KindHTTPResponse:
		return "http response"
	default:
		return "unparsed"
	}
}

// KindOf maps a module tag to its kind. Tags are matched exactly.
func KindOf(module string) (Kind, bool) {
	switch module {
	case "uptime":
		return KindUptime, true
	case "mtu":
		return KindMTU, true
	case "syn":
		return KindSyn, true
	case "syn+ack":
		return KindSynAck, true
	case "host change":
		return KindHostChange, true
	case "http request":
		return KindHTTPRequest, true
	case "http response":
		return KindHTTPResponse, true
	default:
		return KindUnparsed, false
	}
}

// Payload is the module-specific part of a Record. The set of
// implementations is closed; switch on the concrete type.
type Payload interface {
	Kind() Kind
	Module() string
	payload()
}

// Uptime carries the host uptime estimate. Elapsed and Modulo are
// reported independently by p0f.
type Uptime struct {
	Elapsed time.Duration
	Modulo  time.Duration
	RawFreq string
}

type MTU struct {
	Link   string
	RawMTU uint
}

// TCPFingerprint holds the fields shared by SYN and SYN+ACK signatures.
type TCPFingerprint struct {
	OS     string
	Dist   string
	Params string
	RawSig string
}

type Syn struct {
	TCPFingerprint
}

type SynAck struct {
	TCPFingerprint
}

type HostChange struct {
	Reason  string
	RawHits string
}

// HTTPFingerprint holds the fields shared by HTTP request and response signatures.
type HTTPFingerprint struct {
	App    string
	Lang   string
	Params string
	RawSig string
}

type HTTPRequest struct {
	HTTPFingerprint
}

type HTTPResponse struct {
	HTTPFingerprint
}

// Unparsed is produced for module tags the parser does not know.
// Remain is everything after the module tag, untouched.
type Unparsed struct {
	Tag    string
	Remain string
}

func (Uptime) Kind() Kind       { return KindUptime }
func (MTU) Kind() Kind          { return KindMTU }
func (Syn) Kind() Kind          { return KindSyn }
func (SynAck) Kind() Kind       { return KindSynAck }
func (HostChange) Kind() Kind   { return KindHostChange }
func (HTTPRequest) Kind() Kind  { return KindHTTPRequest }
func (HTTPResponse) Kind() Kind { return KindHTTPResponse }
func (Unparsed) Kind() Kind     { return KindUnparsed }

func (Uptime) Module() string       { return KindUptime.String() }
func (MTU) Module() string          { return KindMTU.String() }
func (Syn) Module() string          { return KindSyn.String() }
func (SynAck) Module() string       { return KindSynAck.String() }
func (HostChange) Module() string   { return KindHostChange.String() }
func (HTTPRequest) Module() string  { return KindHTTPRequest.String() }
func (HTTPResponse) Module() string { return KindHTTPResponse.String() }
func (u Unparsed) Module() string   { return u.Tag }

func (Uptime) payload()       {}
func (MTU) payload()          {}
func (Syn) payload()          {}
func (SynAck) payload()       {}
func (HostChange) payload()   {}
func (HTTPRequest) payload()  {}
func (HTTPResponse) payload() {}
func (Unparsed) payload()     {}
