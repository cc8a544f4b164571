package repository

import "hunt-tracker/internal/domain"

// MemoryStore is an in-process Store used by tests and callers that want to
// run the pipeline without touching disk.
type MemoryStore struct {
	records []domain.RawRecord
	hashes  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadRecords() ([]domain.RawRecord, error) {
	out := make([]domain.RawRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) SaveRecords(records []domain.RawRecord) error {
	s.records = make([]domain.RawRecord, len(records))
	copy(s.records, records)
	return nil
}

func (s *MemoryStore) LoadHashes() ([]string, error) {
	out := make([]string, len(s.hashes))
	copy(out, s.hashes)
	return out, nil
}

func (s *MemoryStore) SaveHashes(hashes []string) error {
	seen := make(map[string]bool, len(hashes))
	s.hashes = s.hashes[:0]
	for _, h := range hashes {
		if seen[h] {
			continue
		}
		seen[h] = true
		s.hashes = append(s.hashes, h)
	}
	return nil
}

func (s *MemoryStore) ClearHashes() error {
	s.hashes = nil
	return nil
}
