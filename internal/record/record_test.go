package record

import (
	"encoding/json"
	"net/netip"
	"testing"
	"time"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointString(t *testing.T) {
	tests := []struct {
		addr string
		port uint16
		want string
	}{
		{"192.168.0.34", 35822, "192.168.0.34/35822"},
		{"2001:db8::1", 443, "2001:db8::1/443"},
		{"::ffff:10.0.0.1", 0, "::ffff:10.0.0.1/0"},
		{"10.0.0.1", 65535, "10.0.0.1/65535"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ep := Endpoint{Addr: netip.MustParseAddr(tt.addr), Port: layers.TCPPort(tt.port)}
			assert.Equal(t, tt.want, ep.String())
		})
	}
	assert.Equal(t, "", Endpoint{}.String())
	assert.False(t, Endpoint{}.IsValid())
}

func TestKindOf(t *testing.T) {
	for _, k := range []Kind{KindUptime, KindMTU, KindSyn, KindSynAck, KindHostChange, KindHTTPRequest, KindHTTPResponse} {
		got, ok := KindOf(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}

	for _, tag := range []string{"foo", "SYN", "syn ", "http", "unparsed", ""} {
		got, ok := KindOf(tag)
		assert.False(t, ok, tag)
		assert.Equal(t, KindUnparsed, got)
	}
}

func TestRecordObserved(t *testing.T) {
	cli := Endpoint{Addr: netip.MustParseAddr("192.168.0.34"), Port: 35822}
	srv := Endpoint{Addr: netip.MustParseAddr("173.194.76.189"), Port: 443}

	r := &Record{Client: cli, Server: srv, Subject: SubjectServer, Payload: SynAck{}}
	assert.Equal(t, srv, r.Observed())
	assert.True(t, r.HasEndpoints())

	r.Subject = SubjectClient
	assert.Equal(t, cli, r.Observed())

	u := &Record{Payload: Unparsed{Tag: "foo", Remain: "|x=y"}}
	assert.False(t, u.HasEndpoints())
	assert.Equal(t, "foo", u.Module())
	assert.Equal(t, KindUnparsed, u.Kind())
	assert.Equal(t, Endpoint{}, u.Observed())
}

func TestRecordMarshalJSON(t *testing.T) {
	ts := time.Date(2020, 4, 17, 11, 39, 16, 0, time.UTC)
	cli := Endpoint{Addr: netip.MustParseAddr("192.168.0.34"), Port: 35822}
	srv := Endpoint{Addr: netip.MustParseAddr("173.194.76.189"), Port: 443}

	t.Run("syn+ack", func(t *testing.T) {
		r := &Record{
			Timestamp: ts,
			Client:    cli,
			Server:    srv,
			Subject:   SubjectServer,
			Payload: SynAck{TCPFingerprint{
				OS:     "???",
				Dist:   "22",
				Params: "none",
				RawSig: "4:106+22:0:1430:mss*44,8:mss,sok,ts,nop,ws::0",
			}},
		}
		data, err := json.Marshal(r)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "2020-04-17T11:39:16Z", got["timestamp"])
		assert.Equal(t, "syn+ack", got["module"])
		assert.Equal(t, "192.168.0.34/35822", got["client"])
		assert.Equal(t, "173.194.76.189/443", got["server"])
		assert.Equal(t, "srv", got["subject"])
		assert.Equal(t, "???", got["os"])
		assert.Equal(t, "4:106+22:0:1430:mss*44,8:mss,sok,ts,nop,ws::0", got["raw_sig"])
		assert.NotContains(t, got, "remain")
	})

	t.Run("uptime", func(t *testing.T) {
		r := &Record{
			Timestamp: ts,
			Client:    cli,
			Server:    srv,
			Subject:   SubjectClient,
			Payload:   Uptime{Elapsed: 90 * time.Second, Modulo: 86400 * time.Second, RawFreq: "100.00 Hz"},
		}
		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"uptime_seconds":90`)
		assert.Contains(t, string(data), `"modulo_seconds":86400`)
		assert.Contains(t, string(data), `"raw_freq":"100.00 Hz"`)
	})

	t.Run("mtu zero is kept", func(t *testing.T) {
		r := &Record{Timestamp: ts, Client: cli, Server: srv, Subject: SubjectClient, Payload: MTU{Link: "???", RawMTU: 0}}
		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"raw_mtu":0`)
	})

	t.Run("unparsed", func(t *testing.T) {
		r := &Record{Timestamp: ts, Payload: Unparsed{Tag: "foo", Remain: ""}}
		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"timestamp":"2020-04-17T11:39:16Z","module":"foo","remain":""}`, string(data))
	})
}
