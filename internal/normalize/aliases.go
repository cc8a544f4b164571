package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"hunt-tracker/internal/domain"
)

// aliases maps each logical field to the historical key spellings exporters
// have used for it, in probing order.
var aliases = map[string][]string{
	"session_start": {"Session start", "session_start", "Start", "start"},
	"session_end":   {"Session end", "session_end", "End", "end"},
	"duration":      {"Session length", "duration", "Duration", "length"},
	"xp_gain":       {"XP Gain", "xp_gain", "XP", "Xp Gain"},
	"raw_xp_gain":   {"Raw XP Gain", "raw_xp_gain", "Raw XP"},
	"supplies":      {"Supplies", "supplies"},
	"loot":          {"Loot", "loot"},
	"balance":       {"Balance", "balance"},
	"balance_real":  {"Balance Real", "balance_real", "Real Balance"},
	"transfer_text": {"Transfer", "transfer", "Party Text", "party_text"},
	"vocation":      {"vocation", "Vocation"},
	"mode":          {"mode", "Mode"},
	"vocation_duo":  {"vocation_duo", "Vocation Duo", "Vocation duo"},
	"zone":          {"zona", "Zona", "Zone", "Hunt Place", "Area"},
	"path":          {"path", "Path"},
	"level":         {"Level", "level"},
}

// Field probes the ordered alias list for a logical field and returns the
// first non-nil, non-empty value. Absence is nil, never an error.
func Field(rec domain.RawRecord, field string) any {
	keys, ok := aliases[field]
	if !ok {
		keys = []string{field}
	}
	for _, k := range keys {
		v, present := rec[k]
		if !present || v == nil || v == "" {
			continue
		}
		return v
	}
	return nil
}

// FieldString is Field with string coercion; missing values become "".
func FieldString(rec domain.RawRecord, field string) string {
	v := Field(rec, field)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ToInt coerces exporter numbers to int. Strings tolerate thousand
// separators, stray whitespace and unit suffixes ("1,234,567 gp" -> 1234567).
// Anything unusable degrades to 0.
func ToInt(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case bool:
		if n {
			return 1
		}
		return 0
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// ToFloat coerces kill counts, which some exporters emit as strings with
// thousand separators. Unusable values degrade to 0.
func ToFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	s := strings.ReplaceAll(strings.TrimSpace(fmt.Sprint(v)), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
