package domain

// RawRecord is an uploaded hunt session exactly as exported. Keys and casing
// vary across exporters ("Session start" vs "session_start") and are never
// rewritten in place; the normalizer derives canonical rows from them.
type RawRecord map[string]any

// RowKey identifies a hunt across edits, deletes and backup merges.
// It is weak on purpose: two sessions sharing start, end and xp gain collide.
type RowKey struct {
	SessionStart string
	SessionEnd   string
	XPGain       int
}

// HuntRow is the canonical form of one hunt session, immutable once derived.
type HuntRow struct {
	Path         string
	SessionStart string
	SessionEnd   string
	DurationSec  int
	XPGain       int
	RawXPGain    int
	Supplies     int
	Loot         int
	Balance      int
	Vocation     string
	Mode         string
	VocationDuo  string
	Zone         string
	LevelBucket  string
	LevelMin     int
	LevelMax     int

	// HasAllMeta is true when vocation, mode and zone are set, both xp values
	// were present in the raw record, and multi-participant modes carry a
	// reconciled balance. A row with HasAllMeta true but no usable zone or
	// duration still lands in the pending partition.
	HasAllMeta bool

	KillsByMonster map[string]float64

	// SourceRaw points back at the stored record this row was derived from.
	SourceRaw RawRecord
}

// Hours converts the session duration to fractional hours.
func (r HuntRow) Hours() float64 {
	return float64(r.DurationSec) / 3600.0
}

// Key returns the stable identity of the row.
func (r HuntRow) Key() RowKey {
	return RowKey{SessionStart: r.SessionStart, SessionEnd: r.SessionEnd, XPGain: r.XPGain}
}

// AggregatedZone is one output row of the zone aggregator; recomputed per
// query, never persisted.
type AggregatedZone struct {
	Zone             string
	Hunts            int
	HoursTotal       float64
	XPGainPerHour    float64
	RawXPGainPerHour float64
	SuppliesPerHour  float64
	LootPerHour      float64
	BalancePerHour   float64
}

// BestiaryEstimate is the completion-time estimate for one monster.
// ETAHours is nil when the difficulty is unknown or the kill rate is zero.
type BestiaryEstimate struct {
	Monster       string
	Difficulty    string
	RequiredKills int
	CurrentKills  int
	KPH           float64
	ETAHours      *float64
}
