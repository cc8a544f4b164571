// Package aggregate derives per-zone throughput tables and per-monster kill
// rates from processed hunt rows. All functions are pure; callers apply
// vocation/mode/level filtering and exclude pending rows upstream.
package aggregate

import (
	"math"
	"sort"

	"hunt-tracker/internal/domain"
)

// ByZone groups rows by zone and computes per-hour rates for each tracked
// metric. Output is sorted by balance per hour, descending; ties keep the
// order zones first appeared in the input. Empty input yields an empty,
// non-nil slice. Zero total hours never divides; rates degrade to 0.
func ByZone(rows []domain.HuntRow) []domain.AggregatedZone {
	type bucket struct {
		hunts    int
		hours    float64
		xp       float64
		rawXP    float64
		supplies float64
		loot     float64
		balance  float64
	}

	order := make([]string, 0)
	buckets := make(map[string]*bucket)
	for _, r := range rows {
		b, ok := buckets[r.Zone]
		if !ok {
			b = &bucket{}
			buckets[r.Zone] = b
			order = append(order, r.Zone)
		}
		b.hunts++
		b.hours += r.Hours()
		b.xp += float64(r.XPGain)
		b.rawXP += float64(r.RawXPGain)
		b.supplies += float64(r.Supplies)
		b.loot += float64(r.Loot)
		b.balance += float64(r.Balance)
	}

	out := make([]domain.AggregatedZone, 0, len(order))
	for _, zone := range order {
		b := buckets[zone]
		out = append(out, domain.AggregatedZone{
			Zone:             zone,
			Hunts:            b.hunts,
			HoursTotal:       round2(b.hours),
			XPGainPerHour:    round2(safeDiv(b.xp, b.hours)),
			RawXPGainPerHour: round2(safeDiv(b.rawXP, b.hours)),
			SuppliesPerHour:  round2(safeDiv(b.supplies, b.hours)),
			LootPerHour:      round2(safeDiv(b.loot, b.hours)),
			BalancePerHour:   round2(safeDiv(b.balance, b.hours)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BalancePerHour > out[j].BalancePerHour
	})
	return out
}

func safeDiv(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
