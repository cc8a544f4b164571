package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	durClockRe  = regexp.MustCompile(`^(\d{1,2}):(\d{2})h$`)
	durHourRe   = regexp.MustCompile(`^(\d+)\s*h(?:\s*(\d+)\s*min)?$`)
	durMinuteRe = regexp.MustCompile(`^(\d+)\s*min$`)
)

// timestampLayouts covers the datetime spellings seen in session exports.
var timestampLayouts = []string{
	"2006-01-02, 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02, 15:04",
	"2006-01-02",
}

// DurationSeconds resolves a session length of unknown representation to
// whole seconds. Attempts, first success wins: integer seconds, "HH:MMh",
// "<H>h <M>min", "<H>h", "<M>min", a plain numeric string. Malformed input
// degrades to 0, never an error.
func DurationSeconds(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return clampSec(n)
	case int64:
		return clampSec(int(n))
	case float64:
		return clampSec(int(n))
	}

	s := strings.ToLower(strings.TrimSpace(durString(v)))
	if s == "" {
		return 0
	}
	if m := durClockRe.FindStringSubmatch(s); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		return hh*3600 + mm*60
	}
	if m := durHourRe.FindStringSubmatch(s); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm := 0
		if m[2] != "" {
			mm, _ = strconv.Atoi(m[2])
		}
		return hh*3600 + mm*60
	}
	if m := durMinuteRe.FindStringSubmatch(s); m != nil {
		mm, _ := strconv.Atoi(m[1])
		return mm * 60
	}
	if n, err := strconv.Atoi(s); err == nil {
		return clampSec(n)
	}
	return 0
}

// SessionSeconds falls back to the start/end timestamp pair when the duration
// value itself yields nothing. A non-positive difference degrades to 0.
func SessionSeconds(start, end string) int {
	s, okS := ParseTimestamp(start)
	e, okE := ParseTimestamp(end)
	if !okS || !okE {
		return 0
	}
	sec := int(e.Sub(s).Seconds())
	if sec <= 0 {
		return 0
	}
	return sec
}

// ParseTimestamp tries the known exporter datetime layouts.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func durString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func clampSec(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
