package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"hunt-tracker/internal/aggregate"
	"hunt-tracker/internal/backup"
	"hunt-tracker/internal/bestiary"
	"hunt-tracker/internal/domain"
	"hunt-tracker/internal/ingest"
	"hunt-tracker/internal/normalize"
	"hunt-tracker/internal/repository"
)

// VocationOptions and ModeOptions are the closed vocabularies accepted by
// metadata edits.
var VocationOptions = []string{"Knight", "Paladin", "Druid", "Sorcerer", "Monk"}
var ModeOptions = []string{"Solo", "Duo", "TH"}

// Filter restricts processed rows before aggregation. Empty fields match
// everything; LevelBucket "All" is equivalent to empty.
type Filter struct {
	Vocation    string
	Mode        string
	LevelBucket string
}

// EditPatch is a partial metadata edit applied to one stored raw record.
// Vocation, Mode, Zone and Level always apply; the rest only when set.
type EditPatch struct {
	Vocation     string
	Mode         string
	Zone         string
	Level        string
	DuoVocation  string
	PartyMembers []string

	// TransferText, when present, is run through the balance parser and the
	// result recorded as the reconciled balance alongside the text itself.
	TransferText *string

	// BalanceReal overrides the parsed value when supplied directly.
	BalanceReal *int
}

// DedupeInfo summarizes store/ledger state for debugging.
type DedupeInfo struct {
	StoreRows  int
	LedgerSize int
	Pending    int
	Processed  int
}

type HuntService struct {
	store      repository.Store
	ingestor   *ingest.Ingestor
	codec      *backup.Codec
	balance    normalize.BalanceParser
	difficulty map[string]string
	logger     zerolog.Logger
}

func NewHuntService(
	store repository.Store,
	ingestor *ingest.Ingestor,
	codec *backup.Codec,
	balance normalize.BalanceParser,
	difficulty map[string]string,
	logger zerolog.Logger,
) *HuntService {
	return &HuntService{
		store:      store,
		ingestor:   ingestor,
		codec:      codec,
		balance:    balance,
		difficulty: difficulty,
		logger:     logger,
	}
}

// Upload ingests a batch of uploaded payloads.
func (s *HuntService) Upload(payloads [][]byte) (ingest.Report, error) {
	return s.ingestor.AddPayloads(payloads)
}

// Tables normalizes the current store into its two partitions.
func (s *HuntService) Tables() (normalize.Result, error) {
	records, err := s.store.LoadRecords()
	if err != nil {
		return normalize.Result{}, fmt.Errorf("failed to load store: %w", err)
	}
	return normalize.Records(records), nil
}

// FilteredProcessed returns the processed partition narrowed by the filter.
func (s *HuntService) FilteredProcessed(f Filter) ([]domain.HuntRow, error) {
	res, err := s.Tables()
	if err != nil {
		return nil, err
	}
	return applyFilter(res.Processed, f), nil
}

func applyFilter(rows []domain.HuntRow, f Filter) []domain.HuntRow {
	out := make([]domain.HuntRow, 0, len(rows))
	for _, r := range rows {
		if f.Vocation != "" && r.Vocation != f.Vocation {
			continue
		}
		if f.Mode != "" && r.Mode != f.Mode {
			continue
		}
		if f.LevelBucket != "" && f.LevelBucket != "All" && r.LevelBucket != f.LevelBucket {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ZoneTable aggregates the filtered processed rows by zone.
func (s *HuntService) ZoneTable(f Filter) ([]domain.AggregatedZone, error) {
	rows, err := s.FilteredProcessed(f)
	if err != nil {
		return nil, err
	}
	return aggregate.ByZone(rows), nil
}

// ZoneTableCSV renders the aggregated zone table as CSV bytes.
func (s *HuntService) ZoneTableCSV(f Filter) ([]byte, error) {
	table, err := s.ZoneTable(f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"zone", "hunts", "hours_total", "xp_gain_per_hour", "raw_xp_gain_per_hour", "supplies_per_hour", "loot_per_hour", "balance_per_hour"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range table {
		record := []string{
			row.Zone,
			strconv.Itoa(row.Hunts),
			strconv.FormatFloat(row.HoursTotal, 'f', 2, 64),
			strconv.FormatFloat(row.XPGainPerHour, 'f', 2, 64),
			strconv.FormatFloat(row.RawXPGainPerHour, 'f', 2, 64),
			strconv.FormatFloat(row.SuppliesPerHour, 'f', 2, 64),
			strconv.FormatFloat(row.LootPerHour, 'f', 2, 64),
			strconv.FormatFloat(row.BalancePerHour, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ZoneMonsters computes the per-monster KPH and bestiary estimate table for
// one zone, within the given filter.
func (s *HuntService) ZoneMonsters(zone string, f Filter) ([]domain.BestiaryEstimate, error) {
	rows, err := s.FilteredProcessed(f)
	if err != nil {
		return nil, err
	}
	zoneRows := make([]domain.HuntRow, 0, len(rows))
	for _, r := range rows {
		if r.Zone == zone {
			zoneRows = append(zoneRows, r)
		}
	}
	kph := aggregate.KillsPerHour(zoneRows)
	return bestiary.ZoneEstimates(kph, s.difficulty, nil), nil
}

// EditMetadata patches vocation/mode/zone/level (and optionally duo vocation,
// party members and a reconciled balance) onto the stored raw record matching
// the key. Returns false when no record matches.
func (s *HuntService) EditMetadata(key domain.RowKey, patch EditPatch) (bool, error) {
	if err := validatePatch(patch); err != nil {
		return false, err
	}

	records, err := s.store.LoadRecords()
	if err != nil {
		return false, fmt.Errorf("failed to load store: %w", err)
	}

	found := false
	for _, rec := range records {
		if normalize.KeyOf(rec) != key {
			continue
		}
		rec["Vocation"] = patch.Vocation
		rec["Mode"] = patch.Mode
		rec["Zona"] = patch.Zone
		rec["Level"] = patch.Level
		if patch.DuoVocation != "" {
			rec["Vocation duo"] = patch.DuoVocation
		}
		if patch.PartyMembers != nil {
			rec["Party Members"] = patch.PartyMembers
		}
		balanceReal, ok := s.reconciledBalance(patch)
		if ok {
			rec["Balance"] = balanceReal
			rec["Balance Real"] = balanceReal
			if patch.TransferText != nil {
				rec["Transfer"] = *patch.TransferText
			}
		}
		found = true
		break
	}
	if !found {
		return false, nil
	}

	if err := s.store.SaveRecords(records); err != nil {
		return false, fmt.Errorf("failed to save store: %w", err)
	}
	s.logger.Info().
		Str("session_start", key.SessionStart).
		Str("zone", patch.Zone).
		Msg("hunt metadata updated")
	return true, nil
}

func (s *HuntService) reconciledBalance(patch EditPatch) (int, bool) {
	if patch.BalanceReal != nil {
		return *patch.BalanceReal, true
	}
	if patch.TransferText != nil && *patch.TransferText != "" {
		return s.balance.Parse(*patch.TransferText), true
	}
	return 0, false
}

func validatePatch(patch EditPatch) error {
	if !contains(VocationOptions, patch.Vocation) {
		return fmt.Errorf("unknown vocation %q", patch.Vocation)
	}
	if !contains(ModeOptions, patch.Mode) {
		return fmt.Errorf("unknown mode %q", patch.Mode)
	}
	if patch.Zone == "" {
		return fmt.Errorf("zone must not be empty")
	}
	if !contains(normalize.LevelBuckets(), patch.Level) {
		return fmt.Errorf("unknown level bucket %q", patch.Level)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// DeleteHunt removes the stored record(s) matching the key. Returns false
// when nothing matched.
func (s *HuntService) DeleteHunt(key domain.RowKey) (bool, error) {
	records, err := s.store.LoadRecords()
	if err != nil {
		return false, fmt.Errorf("failed to load store: %w", err)
	}

	kept := make([]domain.RawRecord, 0, len(records))
	removed := 0
	for _, rec := range records {
		if normalize.KeyOf(rec) == key {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	if removed == 0 {
		return false, nil
	}

	if err := s.store.SaveRecords(kept); err != nil {
		return false, fmt.Errorf("failed to save store: %w", err)
	}
	s.logger.Info().Int("removed", removed).Str("session_start", key.SessionStart).Msg("hunt deleted")
	return true, nil
}

// Dedupe reports current store/ledger sizes.
func (s *HuntService) Dedupe() (DedupeInfo, error) {
	res, err := s.Tables()
	if err != nil {
		return DedupeInfo{}, err
	}
	hashes, err := s.store.LoadHashes()
	if err != nil {
		return DedupeInfo{}, fmt.Errorf("failed to load hash ledger: %w", err)
	}
	return DedupeInfo{
		StoreRows:  len(res.Processed) + len(res.Pending),
		LedgerSize: len(hashes),
		Pending:    len(res.Pending),
		Processed:  len(res.Processed),
	}, nil
}

// ExportBackup returns snapshot bytes of the full state.
func (s *HuntService) ExportBackup() ([]byte, error) {
	return s.codec.Export()
}

// ImportBackup restores a snapshot, either replacing everything or keeping
// currently pending rows.
func (s *HuntService) ImportBackup(data []byte, keepPending bool) error {
	if keepPending {
		return s.codec.ImportKeepPending(data)
	}
	return s.codec.ImportFull(data)
}
