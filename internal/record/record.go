package record

import (
	"net/netip"
	"strconv"
	"time"

	"github.com/google/gopacket/layers"
)

// Subject tells which side of the connection a fingerprint describes.
type Subject uint8

const (
	SubjectUnknown Subject = iota
	SubjectClient
	SubjectServer
)

func (s Subject) String() string {
	switch s {
	case SubjectClient:
		return "cli"
	case SubjectServer:
		return "srv"
	default:
		return ""
	}
}

// Endpoint is one side of an observed connection.
type Endpoint struct {
	Addr netip.Addr
	Port layers.TCPPort
}

// IsValid reports whether the endpoint carries an address.
func (e Endpoint) IsValid() bool {
	return e.Addr.IsValid()
}

// String renders the endpoint the way p0f logs it: "<addr>/<port>".
func (e Endpoint) String() string {
	if !e.Addr.IsValid() {
		return ""
	}
	return e.Addr.String() + "/" + strconv.FormatUint(uint64(e.Port), 10)
}

func (e Endpoint) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Record is one parsed p0f log line.
type Record struct {
	Timestamp time.Time
	Client    Endpoint
	Server    Endpoint
	Subject   Subject
	Payload   Payload
}

// Kind returns the payload variant, or Unparsed when no payload is set.
func (r *Record) Kind() Kind {
	if r.Payload == nil {
		return KindUnparsed
	}
	return r.Payload.Kind()
}

// Module returns the module tag as it appeared in the line.
func (r *Record) Module() string {
	if r.Payload == nil {
		return ""
	}
	return r.Payload.Module()
}

// HasEndpoints is false for records of unknown modules, whose header
// past the module tag is kept verbatim in the Unparsed payload.
func (r *Record) HasEndpoints() bool {
	return r.Client.IsValid() && r.Server.IsValid()
}

// Observed returns the endpoint the fingerprint describes.
func (r *Record) Observed() Endpoint {
	switch r.Subject {
	case SubjectClient:
		return r.Client
	case SubjectServer:
		return r.Server
	default:
		return Endpoint{}
	}
}
