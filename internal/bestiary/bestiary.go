// Package bestiary estimates how long finishing a monster's bestiary entry
// will take at an observed kill rate.
package bestiary

import (
	"sort"
	"strings"

	"hunt-tracker/internal/domain"
)

// requiredKills maps each difficulty tier to the kill count needed for the
// final detail stage.
var requiredKills = map[string]int{
	"Harmless":    25,
	"Trivial":     250,
	"Easy":        500,
	"Medium":      1000,
	"Hard":        2500,
	"Challenging": 5000,
}

// NormalizeDifficulty matches a label case-insensitively against the six
// canonical tiers. Unknown labels yield "".
func NormalizeDifficulty(diff string) string {
	d := strings.TrimSpace(diff)
	for name := range requiredKills {
		if strings.EqualFold(name, d) {
			return name
		}
	}
	return ""
}

// RequiredKills returns the threshold for a difficulty label, or 0 when the
// label is unrecognized.
func RequiredKills(diff string) int {
	return requiredKills[NormalizeDifficulty(diff)]
}

// Estimate builds the completion estimate for one monster. ETAHours is nil
// when the difficulty is unknown or the kill rate is not positive; already
// met thresholds yield 0.
func Estimate(monster string, kph float64, difficulty string, currentKills int) domain.BestiaryEstimate {
	diff := NormalizeDifficulty(difficulty)
	required := requiredKills[diff]

	var eta *float64
	if required > 0 && kph > 0 {
		current := currentKills
		if current < 0 {
			current = 0
		}
		remaining := required - current
		if remaining < 0 {
			remaining = 0
		}
		hours := 0.0
		if remaining > 0 {
			hours = float64(remaining) / kph
		}
		eta = &hours
	}

	return domain.BestiaryEstimate{
		Monster:       monster,
		Difficulty:    diff,
		RequiredKills: required,
		CurrentKills:  currentKills,
		KPH:           kph,
		ETAHours:      eta,
	}
}

// ZoneEstimates joins a zone's kill rates with the difficulty lookup and
// optional per-monster progress, sorted by monster name for stable output.
func ZoneEstimates(kph map[string]float64, difficulty map[string]string, progress map[string]int) []domain.BestiaryEstimate {
	monsters := make([]string, 0, len(kph))
	for m := range kph {
		monsters = append(monsters, m)
	}
	sort.Strings(monsters)

	out := make([]domain.BestiaryEstimate, 0, len(monsters))
	for _, m := range monsters {
		out = append(out, Estimate(m, kph[m], difficulty[m], progress[m]))
	}
	return out
}
