package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"hunt-tracker/internal/domain"
)

// killKeys are the raw-record keys that may hold kill data, probed in order.
// "Killed Monsters" is the canonical exporter form (list of Name/Count
// objects); the rest are legacy spellings seen in old uploads.
var killKeys = []string{
	"Killed Monsters",
	"killed_monsters",
	"Killed monsters",
	"kills_by_monster",
	"killsByMonster",
	"kills_by_creature",
	"creatures_killed",
	"monsters_killed",
	"kills",
	"monsters",
}

var killNameKeys = []string{"monster", "name", "creature", "Monster", "Name"}
var killCountKeys = []string{"kills", "count", "qty", "n", "Count", "Kills"}

// ExtractKills pulls a {monster -> kill count} mapping out of a raw record.
// Counts for a monster appearing more than once are summed; monster names keep
// their as-given capitalization. Absent or unparseable input yields an empty
// map, never an error.
func ExtractKills(rec domain.RawRecord) map[string]float64 {
	for _, key := range killKeys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		if m := killsMapping(v); len(m) > 0 {
			return m
		}
	}
	return map[string]float64{}
}

// killsMapping converts one candidate value to {monster: kills}. Accepted
// shapes: a mapping, a list of Name/Count objects, a list of (name, count)
// pairs, or a string encoding any of those.
func killsMapping(v any) map[string]float64 {
	out := map[string]float64{}
	switch val := v.(type) {
	case map[string]any:
		for k, raw := range val {
			out[k] += ToFloat(raw)
		}
	case []any:
		for _, item := range val {
			switch entry := item.(type) {
			case []any:
				if len(entry) >= 2 {
					name := strings.TrimSpace(stringify(entry[0]))
					if name != "" {
						out[name] += ToFloat(entry[1])
					}
				}
			case map[string]any:
				name, count := killsEntry(entry)
				if name != "" {
					out[name] += count
				}
			}
		}
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return out
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			// Legacy uploads carry literal dict encodings with single
			// quotes; retry after swapping the quote style.
			if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &decoded); err != nil {
				return out
			}
		}
		return killsMapping(decoded)
	}
	return out
}

func killsEntry(item map[string]any) (string, float64) {
	var name string
	for _, k := range killNameKeys {
		if v, ok := item[k]; ok && v != nil {
			name = strings.TrimSpace(stringify(v))
			break
		}
	}
	var count float64
	for _, k := range killCountKeys {
		if v, ok := item[k]; ok && v != nil {
			count = ToFloat(v)
			break
		}
	}
	return name, count
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
