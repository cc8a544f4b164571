// Package normalize reconciles loosely-structured hunt session records into
// canonical rows and partitions them into processed and pending sets.
package normalize

import (
	"strings"

	"hunt-tracker/internal/domain"
)

// Result holds both partitions produced from one pass over the store.
// Every input record lands in exactly one of the two.
type Result struct {
	Processed []domain.HuntRow
	Pending   []domain.HuntRow
}

// multiModes are the hunt modes whose balance needs manual reconciliation
// before it can be attributed to a single character.
var multiModes = map[string]bool{"duo": true, "th": true, "team hunt": true}

// Records canonicalizes a batch of raw records. Missing or malformed fields
// degrade to empty/zero sentinels and push the row into the pending
// partition; nothing here returns an error.
func Records(raw []domain.RawRecord) Result {
	var res Result
	for _, rec := range raw {
		row := Row(rec)
		if !row.HasAllMeta || row.Zone == "" || row.DurationSec <= 0 {
			res.Pending = append(res.Pending, row)
		} else {
			res.Processed = append(res.Processed, row)
		}
	}
	return res
}

// Row canonicalizes a single raw record.
func Row(rec domain.RawRecord) domain.HuntRow {
	sessionStart := FieldString(rec, "session_start")
	sessionEnd := FieldString(rec, "session_end")

	// Presence matters for completeness, before numeric coercion.
	xpRaw := Field(rec, "xp_gain")
	rawXPRaw := Field(rec, "raw_xp_gain")

	xpGain := ToInt(xpRaw)
	rawXPGain := ToInt(rawXPRaw)
	supplies := ToInt(Field(rec, "supplies"))
	loot := ToInt(Field(rec, "loot"))
	balance := ToInt(Field(rec, "balance"))

	balanceReal := ToInt(Field(rec, "balance_real"))
	if balanceReal != 0 {
		balance = balanceReal
	}

	vocation := FieldString(rec, "vocation")
	mode := FieldString(rec, "mode")
	vocationDuo := FieldString(rec, "vocation_duo")
	if vocationDuo == "" && strings.EqualFold(mode, "solo") {
		vocationDuo = "none"
	}
	zone := FieldString(rec, "zone")
	path := FieldString(rec, "path")

	levelBucket, levelMin, levelMax := ParseLevel(Field(rec, "level"))

	durationSec := DurationSeconds(Field(rec, "duration"))
	if durationSec == 0 {
		durationSec = SessionSeconds(sessionStart, sessionEnd)
	}

	if balance == 0 && (loot != 0 || supplies != 0) {
		balance = loot - supplies
	}

	transferText := strings.TrimSpace(FieldString(rec, "transfer_text"))

	hasMeta := vocation != "" && mode != "" && zone != "" && xpRaw != nil && rawXPRaw != nil
	if hasMeta && multiModes[strings.ToLower(mode)] {
		// Multi-participant balances are only trusted once reconciled.
		hasMeta = balanceReal != 0 || transferText != ""
	}

	return domain.HuntRow{
		Path:           path,
		SessionStart:   sessionStart,
		SessionEnd:     sessionEnd,
		DurationSec:    durationSec,
		XPGain:         xpGain,
		RawXPGain:      rawXPGain,
		Supplies:       supplies,
		Loot:           loot,
		Balance:        balance,
		Vocation:       vocation,
		Mode:           mode,
		VocationDuo:    vocationDuo,
		Zone:           zone,
		LevelBucket:    levelBucket,
		LevelMin:       levelMin,
		LevelMax:       levelMax,
		HasAllMeta:     hasMeta,
		KillsByMonster: ExtractKills(rec),
		SourceRaw:      rec,
	}
}

// KeyOf derives the stable identity of a stored raw record, matching the key
// canonical rows report via HuntRow.Key.
func KeyOf(rec domain.RawRecord) domain.RowKey {
	return domain.RowKey{
		SessionStart: FieldString(rec, "session_start"),
		SessionEnd:   FieldString(rec, "session_end"),
		XPGain:       ToInt(Field(rec, "xp_gain")),
	}
}
