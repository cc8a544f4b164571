package backup

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"hunt-tracker/internal/domain"
	"hunt-tracker/internal/normalize"
	"hunt-tracker/internal/repository"
)

func processedRecord(start, zone string) domain.RawRecord {
	return domain.RawRecord{
		"Session start":  start,
		"Session end":    "2024-03-01, 22:00:00",
		"Session length": "02:00h",
		"XP Gain":        "100,000",
		"Raw XP Gain":    "120,000",
		"Vocation":       "Knight",
		"Mode":           "Solo",
		"Zona":           zone,
	}
}

func pendingRecord(start string) domain.RawRecord {
	return domain.RawRecord{
		"Session start": start,
		"Session end":   "2024-03-01, 22:00:00",
		"XP Gain":       "50,000",
	}
}

func newCodec(t *testing.T) (*Codec, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewCodec(store, zerolog.Nop()), store
}

func TestExportImportRoundTrip(t *testing.T) {
	codec, store := newCodec(t)
	store.SaveRecords([]domain.RawRecord{processedRecord("s1", "Lair"), pendingRecord("s2")})
	store.SaveHashes([]string{"aaa", "bbb"})

	data, err := codec.Export()
	if err != nil {
		t.Fatal(err)
	}

	// Restore into a fresh store.
	codec2, store2 := newCodec(t)
	if err := codec2.ImportFull(data); err != nil {
		t.Fatal(err)
	}

	records, _ := store2.LoadRecords()
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	hashes, _ := store2.LoadHashes()
	if len(hashes) != 2 {
		t.Fatalf("hashes = %d, want 2", len(hashes))
	}
	if normalize.KeyOf(records[0]) != normalize.KeyOf(processedRecord("s1", "Lair")) {
		t.Error("restored record does not match exported record")
	}
}

func TestImportRejectsBadSnapshots(t *testing.T) {
	codec, store := newCodec(t)
	store.SaveRecords([]domain.RawRecord{processedRecord("keep", "Lair")})

	cases := map[string][]byte{
		"not json":      []byte(`{{{`),
		"no version":    []byte(`{"store":[]}`),
		"wrong version": []byte(`{"version":99,"store":[],"hashes":[]}`),
	}
	for name, data := range cases {
		if err := codec.ImportFull(data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	// Nothing was applied.
	records, _ := store.LoadRecords()
	if len(records) != 1 {
		t.Errorf("records = %d after rejected imports, want 1", len(records))
	}
}

func TestImportKeepPending(t *testing.T) {
	codec, store := newCodec(t)

	// Current store: pending row P and processed row A.
	p := pendingRecord("P-start")
	a := processedRecord("A-start", "Zone A")
	store.SaveRecords([]domain.RawRecord{p, a})
	store.SaveHashes([]string{"current"})

	// Backup: processed row B (and a pending row that must be ignored).
	b := processedRecord("B-start", "Zone B")
	snap := Snapshot{
		Version: SnapshotVersion,
		Store:   []domain.RawRecord{b, pendingRecord("ignored")},
		Hashes:  []string{"from-backup"},
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}

	if err := codec.ImportKeepPending(data); err != nil {
		t.Fatal(err)
	}

	records, _ := store.LoadRecords()
	keys := make(map[domain.RowKey]bool)
	for _, rec := range records {
		keys[normalize.KeyOf(rec)] = true
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want exactly {P, B}", len(records))
	}
	if !keys[normalize.KeyOf(p)] {
		t.Error("pending row P was dropped")
	}
	if !keys[normalize.KeyOf(b)] {
		t.Error("processed backup row B was not restored")
	}
	if keys[normalize.KeyOf(a)] {
		t.Error("current processed row A should have been replaced")
	}

	hashes, _ := store.LoadHashes()
	if len(hashes) != 1 || hashes[0] != "from-backup" {
		t.Errorf("ledger = %v, want replaced from backup", hashes)
	}
}
