package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTimestamp(t *testing.T) {
	ts, err := decodeTimestamp("2020/04/17 11:39:16", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 4, 17, 11, 39, 16, 0, time.UTC), ts)

	loc := time.FixedZone("UTC+8", 8*3600)
	ts, err = decodeTimestamp("2020/04/17 11:39:16", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 4, 17, 3, 39, 16, 0, time.UTC), ts.UTC())

	bad := []string{
		"2020/13/17 11:39:16",
		"2020/02/30 11:39:16",
		"2020/04/17 24:00:00",
		"2020/04/17 11:60:16",
		"2020/4/17 11:39:16",
		"2020/04/17 1:39:16",
		"2020-04-17 11:39:16",
		"2020/04/17T11:39:16",
		"20/04/17 11:39:16",
		"2020/04/17 11:39:16 ",
		"abcd/04/17 11:39:16",
		"",
	}
	for _, s := range bad {
		_, err := decodeTimestamp(s, time.UTC)
		assert.Error(t, err, s)
	}
}

func TestDecodeUptime(t *testing.T) {
	tests := []struct {
		in      string
		elapsed time.Duration
		modulo  time.Duration
	}{
		{
			in:      "10 days 4 hrs 33 min (modulo 30 days)",
			elapsed: (10*86400 + 4*3600 + 33*60) * time.Second,
			modulo:  30 * 86400 * time.Second,
		},
		{
			in:      "0 days 11 hrs 16 min (modulo 198 days)",
			elapsed: (11*3600 + 16*60) * time.Second,
			modulo:  198 * 86400 * time.Second,
		},
		{
			in:      "  1 days\t0 hrs   0 min ( modulo 0 days ) ",
			elapsed: 86400 * time.Second,
			modulo:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			elapsed, modulo, err := decodeUptime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.elapsed, elapsed)
			assert.Equal(t, tt.modulo, modulo)
		})
	}

	bad := []string{
		"",
		"10 days 4 hrs 33 min",
		"10 days 4 hours 33 min (modulo 30 days)",
		"ten days 4 hrs 33 min (modulo 30 days)",
		"10 days 4 hrs 33 min (modulo days)",
		"10 days 4 hrs 33 min (modulo 30 days) extra",
		"-1 days 4 hrs 33 min (modulo 30 days)",
		"10 days 4 hrs 33 min [modulo 30 days]",
		"4294967296 days 0 hrs 0 min (modulo 1 days)",
		"4294967295 days 0 hrs 0 min (modulo 1 days)",
	}
	for _, s := range bad {
		_, _, err := decodeUptime(s)
		assert.Error(t, err, s)
	}
}
