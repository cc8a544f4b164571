package normalize

import (
	"testing"

	"hunt-tracker/internal/domain"
)

// completeRecord returns a raw record with everything a processed row needs.
func completeRecord() domain.RawRecord {
	return domain.RawRecord{
		"Session start":  "2024-03-01, 20:00:00",
		"Session end":    "2024-03-01, 21:22:00",
		"Session length": "01:22h",
		"XP Gain":        "1,234,567",
		"Raw XP Gain":    "1,500,000",
		"Supplies":       "40,000",
		"Loot":           "90,000",
		"Balance":        "50,000",
		"Vocation":       "Knight",
		"Mode":           "Solo",
		"Zona":           "Dragon Lair",
		"Level":          "101-150",
	}
}

func TestRowCanonicalizesAliases(t *testing.T) {
	row := Row(completeRecord())

	if row.SessionStart != "2024-03-01, 20:00:00" {
		t.Errorf("SessionStart = %q", row.SessionStart)
	}
	if row.DurationSec != 4920 {
		t.Errorf("DurationSec = %d, want 4920", row.DurationSec)
	}
	if row.XPGain != 1234567 {
		t.Errorf("XPGain = %d, want 1234567", row.XPGain)
	}
	if row.Zone != "Dragon Lair" {
		t.Errorf("Zone = %q", row.Zone)
	}
	if row.LevelBucket != "101-150" || row.LevelMin != 101 || row.LevelMax != 150 {
		t.Errorf("level = %q (%d, %d)", row.LevelBucket, row.LevelMin, row.LevelMax)
	}
	if !row.HasAllMeta {
		t.Error("expected HasAllMeta")
	}
	if row.VocationDuo != "none" {
		t.Errorf("VocationDuo = %q, want none for solo", row.VocationDuo)
	}
}

func TestRowSnakeCaseAliases(t *testing.T) {
	row := Row(domain.RawRecord{
		"session_start": "2024-03-01, 20:00:00",
		"session_end":   "2024-03-01, 22:00:00",
		"xp_gain":       float64(100),
		"raw_xp_gain":   float64(120),
		"vocation":      "Druid",
		"mode":          "Solo",
		"zona":          "Swamp",
	})
	if row.DurationSec != 7200 {
		t.Errorf("DurationSec from timestamps = %d, want 7200", row.DurationSec)
	}
	if !row.HasAllMeta {
		t.Error("expected HasAllMeta")
	}
}

func TestRowBalanceFallbacks(t *testing.T) {
	rec := completeRecord()
	delete(rec, "Balance")
	row := Row(rec)
	if row.Balance != 50000 {
		t.Errorf("loot-supplies fallback = %d, want 50000", row.Balance)
	}

	rec = completeRecord()
	rec["Balance Real"] = "33,000"
	row = Row(rec)
	if row.Balance != 33000 {
		t.Errorf("balance real override = %d, want 33000", row.Balance)
	}
}

func TestRowsPartition(t *testing.T) {
	missingZone := completeRecord()
	delete(missingZone, "Zona")

	noDuration := completeRecord()
	delete(noDuration, "Session length")
	delete(noDuration, "Session start")
	delete(noDuration, "Session end")

	res := Records([]domain.RawRecord{completeRecord(), missingZone, noDuration})
	if len(res.Processed) != 1 {
		t.Fatalf("processed = %d, want 1", len(res.Processed))
	}
	if len(res.Pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(res.Pending))
	}

	// Every processed row satisfies the aggregation requirements.
	for _, r := range res.Processed {
		if !r.HasAllMeta || r.Zone == "" || r.DurationSec <= 0 {
			t.Errorf("processed row violates invariant: %+v", r)
		}
	}

	// The no-duration row keeps its metadata flag but stays pending.
	for _, r := range res.Pending {
		if r.Zone == "Dragon Lair" && r.DurationSec == 0 && !r.HasAllMeta {
			t.Error("duration-less row should keep HasAllMeta")
		}
	}
}

func TestRowMultiModeNeedsReconciledBalance(t *testing.T) {
	duo := completeRecord()
	duo["Mode"] = "Duo"
	if Row(duo).HasAllMeta {
		t.Error("duo without reconciliation evidence should not be complete")
	}

	duo["Balance Real"] = "20,000"
	if !Row(duo).HasAllMeta {
		t.Error("duo with balance real should be complete")
	}

	th := completeRecord()
	th["Mode"] = "TH"
	th["Transfer"] = "received 10.000 from Knightguy"
	if !Row(th).HasAllMeta {
		t.Error("team hunt with transfer notes should be complete")
	}
}

func TestRowMissingFieldsNeverError(t *testing.T) {
	row := Row(domain.RawRecord{})
	if row.HasAllMeta {
		t.Error("empty record should not be complete")
	}
	if row.DurationSec != 0 || row.XPGain != 0 || row.Zone != "" {
		t.Errorf("sentinels wrong: %+v", row)
	}
	if row.LevelMin != -1 || row.LevelMax != -1 {
		t.Errorf("level bounds = (%d, %d), want (-1, -1)", row.LevelMin, row.LevelMax)
	}
}

func TestParseLevelSingleValue(t *testing.T) {
	bucket, min, max := ParseLevel("level 250")
	if bucket != "250" || min != 250 || max != 250 {
		t.Errorf("ParseLevel = %q (%d, %d)", bucket, min, max)
	}
}

func TestLevelBucketsLadder(t *testing.T) {
	buckets := LevelBuckets()
	if buckets[0] != "8-25" {
		t.Errorf("first bucket = %q", buckets[0])
	}
	last := buckets[len(buckets)-1]
	if last != "1901-2000" {
		t.Errorf("last bucket = %q", last)
	}
	seen := make(map[string]bool)
	for _, b := range buckets {
		if seen[b] {
			t.Errorf("duplicate bucket %q", b)
		}
		seen[b] = true
	}
}

func TestKeyOfMatchesRowKey(t *testing.T) {
	rec := completeRecord()
	if KeyOf(rec) != Row(rec).Key() {
		t.Error("raw key and canonical row key diverge")
	}
}
