package parser

import (
	"strconv"

	"github.com/LinkTsang/p0f-observer/internal/record"
)

// moduleParser consumes the tags that follow the common header.
type moduleParser func(in string) (record.Payload, string, error)

func moduleParserFor(kind record.Kind) moduleParser {
	switch kind {
	case record.KindUptime:
		return parseUptime
	case record.KindMTU:
		return parseMTU
	case record.KindSyn:
		return parseSyn
	case record.KindSynAck:
		return parseSynAck
	case record.KindHostChange:
		return parseHostChange
	case record.KindHTTPRequest:
		return parseHTTPRequest
	case record.KindHTTPResponse:
		return parseHTTPResponse
	default:
		return nil
	}
}

func parseUptime(in string) (record.Payload, string, error) {
	raw, rest, err := field(in, "uptime", toPipe)
	if err != nil {
		return nil, in, err
	}
	elapsed, modulo, err := decodeUptime(raw)
	if err != nil {
		return nil, in, failure(KindDuration, "uptime", valueOf(in, "uptime"), err)
	}
	freq, rest, err := field(rest, "raw_freq", toEOL)
	if err != nil {
		return nil, in, err
	}
	return record.Uptime{Elapsed: elapsed, Modulo: modulo, RawFreq: freq}, rest, nil
}

func parseMTU(in string) (record.Payload, string, error) {
	link, rest, err := field(in, "link", toPipe)
	if err != nil {
		return nil, in, err
	}
	at := rest
	raw, rest, err := field(rest, "raw_mtu", toEOL)
	if err != nil {
		return nil, in, err
	}
	mtu, err := decimal(raw, strconv.IntSize)
	if err != nil {
		return nil, in, failure(KindInteger, "raw_mtu", valueOf(at, "raw_mtu"), err)
	}
	return record.MTU{Link: link, RawMTU: uint(mtu)}, rest, nil
}

func tcpFingerprint(in string) (record.TCPFingerprint, string, error) {
	v, rest, err := fields(in, "os", "dist", "params", "raw_sig")
	if err != nil {
		return record.TCPFingerprint{}, in, err
	}
	return record.TCPFingerprint{OS: v[0], Dist: v[1], Params: v[2], RawSig: v[3]}, rest, nil
}

func parseSyn(in string) (record.Payload, string, error) {
	fp, rest, err := tcpFingerprint(in)
	if err != nil {
		return nil, in, err
	}
	return record.Syn{TCPFingerprint: fp}, rest, nil
}

func parseSynAck(in string) (record.Payload, string, error) {
	fp, rest, err := tcpFingerprint(in)
	if err != nil {
		return nil, in, err
	}
	return record.SynAck{TCPFingerprint: fp}, rest, nil
}

func parseHostChange(in string) (record.Payload, string, error) {
	v, rest, err := fields(in, "reason", "raw_hits")
	if err != nil {
		return nil, in, err
	}
	return record.HostChange{Reason: v[0], RawHits: v[1]}, rest, nil
}

func httpFingerprint(in string) (record.HTTPFingerprint, string, error) {
	v, rest, err := fields(in, "app", "lang", "params", "raw_sig")
	if err != nil {
		return record.HTTPFingerprint{}, in, err
	}
	return record.HTTPFingerprint{App: v[0], Lang: v[1], Params: v[2], RawSig: v[3]}, rest, nil
}

func parseHTTPRequest(in string) (record.Payload, string, error) {
	fp, rest, err := httpFingerprint(in)
	if err != nil {
		return nil, in, err
	}
	return record.HTTPRequest{HTTPFingerprint: fp}, rest, nil
}

func parseHTTPResponse(in string) (record.Payload, string, error) {
	fp, rest, err := httpFingerprint(in)
	if err != nil {
		return nil, in, err
	}
	return record.HTTPResponse{HTTPFingerprint: fp}, rest, nil
}
