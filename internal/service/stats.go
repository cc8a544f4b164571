package service

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"hunt-tracker/internal/domain"
)

// Breakdown is one grouping line in the statistics summary.
type Breakdown struct {
	Key   string
	Hunts int
	Hours float64
	Zones int
}

type Statistics struct {
	TotalHunts int
	TotalHours float64
	Pending    int
	ByVocation []Breakdown
	ByMode     []Breakdown
	ByLevel    []Breakdown
}

// Stats summarizes the processed partition: totals plus hunt/hour/distinct-
// zone distributions grouped by vocation, mode and level bucket. The three
// groupings are independent reads over the same rows and run concurrently.
func (s *HuntService) Stats() (Statistics, error) {
	res, err := s.Tables()
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{Pending: len(res.Pending)}
	for _, r := range res.Processed {
		stats.TotalHunts++
		stats.TotalHours += r.Hours()
	}
	stats.TotalHours = math.Round(stats.TotalHours*100) / 100

	var g errgroup.Group
	g.Go(func() error {
		stats.ByVocation = breakdown(res.Processed, VocationOptions, func(r domain.HuntRow) string { return r.Vocation })
		return nil
	})
	g.Go(func() error {
		stats.ByMode = breakdown(res.Processed, ModeOptions, func(r domain.HuntRow) string { return r.Mode })
		return nil
	})
	g.Go(func() error {
		stats.ByLevel = breakdown(res.Processed, nil, func(r domain.HuntRow) string { return r.LevelBucket })
		return nil
	})
	if err := g.Wait(); err != nil {
		return Statistics{}, err
	}
	return stats, nil
}

// breakdown groups rows by a key. When a catalog is given its entries come
// first, zero-filled if unseen; keys outside the catalog (and all keys when
// the catalog is nil) follow in sorted order.
func breakdown(rows []domain.HuntRow, catalog []string, keyOf func(domain.HuntRow) string) []Breakdown {
	type agg struct {
		hunts int
		hours float64
		zones map[string]bool
	}

	groups := make(map[string]*agg)
	for _, r := range rows {
		key := keyOf(r)
		a, ok := groups[key]
		if !ok {
			a = &agg{zones: make(map[string]bool)}
			groups[key] = a
		}
		a.hunts++
		a.hours += r.Hours()
		if r.Zone != "" {
			a.zones[r.Zone] = true
		}
	}

	keys := make([]string, 0, len(groups))
	inCatalog := make(map[string]bool, len(catalog))
	for _, k := range catalog {
		inCatalog[k] = true
		keys = append(keys, k)
	}
	var extra []string
	for k := range groups {
		if !inCatalog[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	out := make([]Breakdown, 0, len(keys))
	for _, k := range keys {
		b := Breakdown{Key: k}
		if a, ok := groups[k]; ok {
			b.Hunts = a.hunts
			b.Hours = math.Round(a.hours*100) / 100
			b.Zones = len(a.zones)
		}
		out = append(out, b)
	}
	return out
}
