package aggregate

import (
	"math"

	"hunt-tracker/internal/domain"
)

// KillsPerHour computes {monster: kills/hour} across a row set, normally
// already restricted to one zone. The denominator for each monster is the
// summed hours of only the rows that reported kills of that monster, so rows
// without kill data do not dilute the rate. Monsters with no accumulated
// hours are left out entirely. Rates are rounded to 4 decimals.
func KillsPerHour(rows []domain.HuntRow) map[string]float64 {
	killsSum := make(map[string]float64)
	hoursSum := make(map[string]float64)

	for _, r := range rows {
		hours := r.Hours()
		if hours <= 0 {
			continue
		}
		for monster, count := range r.KillsByMonster {
			if count <= 0 {
				continue
			}
			killsSum[monster] += count
			hoursSum[monster] += hours
		}
	}

	out := make(map[string]float64, len(killsSum))
	for monster, kills := range killsSum {
		if hrs := hoursSum[monster]; hrs > 0 {
			out[monster] = math.Round(kills/hrs*10000) / 10000
		}
	}
	return out
}
