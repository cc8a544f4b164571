package repository

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"hunt-tracker/internal/domain"
)

const (
	storeFilename  = "store.jsonl"
	hashesFilename = "hashes.json"
)

// FileStore keeps records line-oriented (one JSON record per line) next to a
// JSON array of accepted content hashes. Saves rewrite whole files.
type FileStore struct {
	dir    string
	logger zerolog.Logger
}

func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) storePath() string  { return filepath.Join(s.dir, storeFilename) }
func (s *FileStore) hashesPath() string { return filepath.Join(s.dir, hashesFilename) }

func (s *FileStore) LoadRecords() ([]domain.RawRecord, error) {
	f, err := os.Open(s.storePath())
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.RawRecord{}, nil
		}
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer f.Close()

	records := []domain.RawRecord{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec domain.RawRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			s.logger.Warn().Int("line", line).Err(err).Msg("skipping unreadable store line")
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	return records, nil
}

func (s *FileStore) SaveRecords(records []domain.RawRecord) error {
	var b strings.Builder
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.storePath(), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}

func (s *FileStore) LoadHashes() ([]string, error) {
	data, err := os.ReadFile(s.hashesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read hash ledger: %w", err)
	}
	var hashes []string
	if err := json.Unmarshal(data, &hashes); err != nil {
		s.logger.Warn().Err(err).Msg("hash ledger unreadable, treating as empty")
		return []string{}, nil
	}
	return hashes, nil
}

func (s *FileStore) SaveHashes(hashes []string) error {
	// Dedupe while preserving first-seen order.
	seen := make(map[string]bool, len(hashes))
	unique := make([]string, 0, len(hashes))
	for _, h := range hashes {
		if seen[h] {
			continue
		}
		seen[h] = true
		unique = append(unique, h)
	}
	data, err := json.Marshal(unique)
	if err != nil {
		return fmt.Errorf("failed to encode hash ledger: %w", err)
	}
	if err := os.WriteFile(s.hashesPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write hash ledger: %w", err)
	}
	return nil
}

func (s *FileStore) ClearHashes() error {
	return s.SaveHashes([]string{})
}
