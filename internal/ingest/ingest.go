// Package ingest accepts uploaded session payloads, deduplicates them by
// content hash and appends the parsed records to the store.
package ingest

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"hunt-tracker/internal/domain"
	"hunt-tracker/internal/repository"
)

// wrapperKey is the recognized top-level key holding an array of records.
const wrapperKey = "hunts"

// Report summarizes one upload batch.
type Report struct {
	BatchID    string
	Added      int
	Duplicates int
	Failures   int
	Logs       []string
}

type Ingestor struct {
	store  repository.Store
	logger zerolog.Logger
}

func NewIngestor(store repository.Store, logger zerolog.Logger) *Ingestor {
	return &Ingestor{store: store, logger: logger}
}

// AddPayloads ingests a batch of uploaded byte payloads. Each payload is
// hashed before parsing; byte-identical re-uploads (including repeats within
// the same batch) are skipped and counted as duplicates. Malformed payloads
// are counted as failures without aborting the batch. The store and ledger
// are written once, after the whole batch is consumed.
func (i *Ingestor) AddPayloads(payloads [][]byte) (Report, error) {
	batchID, err := gonanoid.New()
	if err != nil {
		return Report{}, fmt.Errorf("failed to generate batch id: %w", err)
	}
	report := Report{BatchID: batchID}
	logger := i.logger.With().Str("batch_id", batchID).Logger()

	records, err := i.store.LoadRecords()
	if err != nil {
		return report, fmt.Errorf("failed to load store: %w", err)
	}
	hashes, err := i.store.LoadHashes()
	if err != nil {
		return report, fmt.Errorf("failed to load hash ledger: %w", err)
	}
	seen := make(map[string]bool, len(hashes))
	for _, h := range hashes {
		seen[h] = true
	}

	for n, payload := range payloads {
		digest := sha256.Sum256(payload)
		sha := hex.EncodeToString(digest[:])
		if seen[sha] {
			report.Duplicates++
			report.Logs = append(report.Logs, fmt.Sprintf("payload %d: duplicate, skipped", n+1))
			logger.Info().Str("sha256", sha).Msg("duplicate payload skipped")
			continue
		}

		recs, err := DecodePayload(payload)
		if err != nil {
			report.Failures++
			report.Logs = append(report.Logs, fmt.Sprintf("payload %d: %v", n+1, err))
			logger.Warn().Err(err).Int("payload", n+1).Msg("failed to decode payload")
			continue
		}

		records = append(records, recs...)
		report.Added += len(recs)
		seen[sha] = true
		hashes = append(hashes, sha)
	}

	if err := i.store.SaveRecords(records); err != nil {
		return report, fmt.Errorf("failed to save store: %w", err)
	}
	if err := i.store.SaveHashes(hashes); err != nil {
		return report, fmt.Errorf("failed to save hash ledger: %w", err)
	}

	logger.Info().
		Int("added", report.Added).
		Int("duplicates", report.Duplicates).
		Int("failures", report.Failures).
		Msg("upload batch ingested")
	return report, nil
}

// DecodePayload parses an uploaded byte payload into raw records. Accepted
// shapes: a single object, an array of objects, an object whose "hunts" key
// holds an array, or line-delimited JSON objects as a fallback.
func DecodePayload(payload []byte) ([]domain.RawRecord, error) {
	var top any
	if err := json.Unmarshal(payload, &top); err != nil {
		if recs := decodeLines(payload); len(recs) > 0 {
			return recs, nil
		}
		return nil, fmt.Errorf("not valid JSON: %w", err)
	}

	switch v := top.(type) {
	case map[string]any:
		if wrapped, ok := v[wrapperKey].([]any); ok {
			return recordsFromList(wrapped)
		}
		return []domain.RawRecord{domain.RawRecord(v)}, nil
	case []any:
		return recordsFromList(v)
	default:
		return nil, fmt.Errorf("unsupported top-level JSON shape %T", top)
	}
}

func recordsFromList(items []any) ([]domain.RawRecord, error) {
	records := make([]domain.RawRecord, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, domain.RawRecord(obj))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("array holds no objects")
	}
	return records, nil
}

// decodeLines salvages JSONL exports: any line that parses as an object is
// taken, the rest are ignored.
func decodeLines(payload []byte) []domain.RawRecord {
	var records []domain.RawRecord
	scanner := bufio.NewScanner(bytes.NewReader(payload))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec domain.RawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}
