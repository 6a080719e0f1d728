package parser

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const timestampLayout = "2006/01/02 15:04:05"

// decodeTimestamp accepts exactly "YYYY/MM/DD hh:mm:ss". time.Parse alone
// would also take single-digit hours, so the shape is checked first.
func decodeTimestamp(s string, loc *time.Location) (time.Time, error) {
	if len(s) != len(timestampLayout) {
		return time.Time{}, fmt.Errorf("expected %d characters in the form %q, got %d", len(timestampLayout), timestampLayout, len(s))
	}
	for i := 0; i < len(s); i++ {
		want := timestampLayout[i]
		got := s[i]
		if want >= '0' && want <= '9' {
			if got < '0' || got > '9' {
				return time.Time{}, fmt.Errorf("expected digit at position %d, got %q", i, got)
			}
			continue
		}
		if got != want {
			return time.Time{}, fmt.Errorf("expected %q at position %d, got %q", want, i, got)
		}
	}
	return time.ParseInLocation(timestampLayout, s, loc)
}

// uptimeShape is the literal form p0f prints uptime in; '#' stands for an
// unsigned integer. Blanks between tokens are free.
var uptimeShape = []string{"#", "days", "#", "hrs", "#", "min", "(", "modulo", "#", "days", ")"}

var maxSeconds = uint64(math.MaxInt64 / int64(time.Second))

// decodeUptime turns "N days H hrs M min (modulo D days)" into the elapsed
// time and the modulo period.
func decodeUptime(s string) (elapsed, modulo time.Duration, err error) {
	var nums []uint64
	rest := s
	for _, tok := range uptimeShape {
		rest = skipBlank(rest)
		if tok != "#" {
			if !strings.HasPrefix(rest, tok) {
				return 0, 0, fmt.Errorf("expected %q at position %d", tok, len(s)-len(rest))
			}
			rest = rest[len(tok):]
			continue
		}
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		n, err := decimal(rest[:end], 32)
		if err != nil {
			return 0, 0, fmt.Errorf("at position %d: %w", len(s)-len(rest), err)
		}
		nums = append(nums, n)
		rest = rest[end:]
	}
	if rest = skipBlank(rest); rest != "" {
		return 0, 0, fmt.Errorf("unexpected %q after uptime", rest)
	}

	days, hrs, mins, mod := nums[0], nums[1], nums[2], nums[3]
	total := days*86400 + hrs*3600 + mins*60
	if total > maxSeconds || mod*86400 > maxSeconds {
		return 0, 0, errors.New("uptime out of range")
	}
	return time.Duration(total) * time.Second, time.Duration(mod*86400) * time.Second, nil
}
