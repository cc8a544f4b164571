// Package backup serializes the full persisted state into a versioned
// snapshot and restores it, wholesale or while keeping in-progress rows.
package backup

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"hunt-tracker/internal/domain"
	"hunt-tracker/internal/normalize"
	"hunt-tracker/internal/repository"
)

// SnapshotVersion is the current backup bundle version.
const SnapshotVersion = 1

// Snapshot is the exported bundle: the raw record store plus the hash ledger.
type Snapshot struct {
	Version int                `json:"version"`
	Store   []domain.RawRecord `json:"store"`
	Hashes  []string           `json:"hashes"`
}

type Codec struct {
	store  repository.Store
	logger zerolog.Logger
}

func NewCodec(store repository.Store, logger zerolog.Logger) *Codec {
	return &Codec{store: store, logger: logger}
}

// Export captures the full store and ledger as snapshot bytes.
func (c *Codec) Export() ([]byte, error) {
	records, err := c.store.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	hashes, err := c.store.LoadHashes()
	if err != nil {
		return nil, fmt.Errorf("failed to load hash ledger: %w", err)
	}

	snap := Snapshot{Version: SnapshotVersion, Store: records, Hashes: hashes}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	c.logger.Info().Int("records", len(records)).Int("hashes", len(hashes)).Msg("backup exported")
	return data, nil
}

// ImportFull replaces the entire store and ledger with the snapshot contents.
func (c *Codec) ImportFull(data []byte) error {
	snap, err := decode(data)
	if err != nil {
		return err
	}
	if err := c.store.SaveRecords(snap.Store); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	if err := c.store.SaveHashes(snap.Hashes); err != nil {
		return fmt.Errorf("failed to replace hash ledger: %w", err)
	}
	c.logger.Info().Int("records", len(snap.Store)).Msg("backup restored (full)")
	return nil
}

// ImportKeepPending restores the snapshot without destroying in-progress
// manual work: rows currently pending stay verbatim, the snapshot contributes
// only rows that normalize as processed there, and the ledger is replaced
// wholesale from the snapshot.
func (c *Codec) ImportKeepPending(data []byte) error {
	snap, err := decode(data)
	if err != nil {
		return err
	}

	current, err := c.store.LoadRecords()
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	curNorm := normalize.Records(current)

	pendingKeys := make(map[domain.RowKey]bool, len(curNorm.Pending))
	for _, row := range curNorm.Pending {
		pendingKeys[row.Key()] = true
	}

	newStore := make([]domain.RawRecord, 0, len(curNorm.Pending)+len(snap.Store))
	for _, rec := range current {
		if pendingKeys[normalize.KeyOf(rec)] {
			newStore = append(newStore, rec)
		}
	}

	snapNorm := normalize.Records(snap.Store)
	for _, row := range snapNorm.Processed {
		if pendingKeys[row.Key()] {
			// Already kept as a pending row; do not duplicate.
			continue
		}
		newStore = append(newStore, row.SourceRaw)
	}

	if err := c.store.SaveRecords(newStore); err != nil {
		return fmt.Errorf("failed to save merged store: %w", err)
	}
	if err := c.store.SaveHashes(snap.Hashes); err != nil {
		return fmt.Errorf("failed to replace hash ledger: %w", err)
	}

	c.logger.Info().
		Int("kept_pending", len(curNorm.Pending)).
		Int("restored_processed", len(snapNorm.Processed)).
		Msg("backup restored (kept pending)")
	return nil
}

// decode validates snapshot bytes before anything is applied, so a malformed
// bundle never partially replaces state.
func decode(data []byte) (Snapshot, error) {
	var probe struct {
		Version *int            `json:"version"`
		Store   json.RawMessage `json:"store"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Snapshot{}, fmt.Errorf("backup is not valid JSON: %w", err)
	}
	if probe.Version == nil {
		return Snapshot{}, fmt.Errorf("backup has no version field")
	}
	if *probe.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("unsupported backup version %d (want %d)", *probe.Version, SnapshotVersion)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("backup shape invalid: %w", err)
	}
	if snap.Store == nil {
		snap.Store = []domain.RawRecord{}
	}
	if snap.Hashes == nil {
		snap.Hashes = []string{}
	}
	return snap, nil
}
