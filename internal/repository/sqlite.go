package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"hunt-tracker/internal/domain"
)

// SQLiteStore keeps the record collection and hash ledger in SQLite, one raw
// JSON payload per row. Saves run inside a transaction so a failed rewrite
// never leaves a half-replaced store.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLiteStore(db *sql.DB, logger zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, logger: logger}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadRecords() ([]domain.RawRecord, error) {
	rows, err := s.db.Query("SELECT payload FROM records ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []domain.RawRecord{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var rec domain.RawRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			s.logger.Warn().Err(err).Msg("skipping unreadable stored record")
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) SaveRecords(records []domain.RawRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		if _, err := tx.Exec("INSERT INTO records (payload) VALUES (?)", string(payload)); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadHashes() ([]string, error) {
	rows, err := s.db.Query("SELECT digest FROM hashes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query hash ledger: %w", err)
	}
	defer rows.Close()

	hashes := []string{}
	for rows.Next() {
		var digest string
		if err := rows.Scan(&digest); err != nil {
			return nil, fmt.Errorf("failed to scan hash: %w", err)
		}
		hashes = append(hashes, digest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hash ledger: %w", err)
	}
	return hashes, nil
}

func (s *SQLiteStore) SaveHashes(hashes []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM hashes"); err != nil {
		return fmt.Errorf("failed to clear hash ledger: %w", err)
	}
	seen := make(map[string]bool, len(hashes))
	pos := 0
	for _, h := range hashes {
		if seen[h] {
			continue
		}
		seen[h] = true
		if _, err := tx.Exec("INSERT INTO hashes (digest, position) VALUES (?, ?)", h, pos); err != nil {
			return fmt.Errorf("failed to insert hash: %w", err)
		}
		pos++
	}
	return tx.Commit()
}

func (s *SQLiteStore) ClearHashes() error {
	if _, err := s.db.Exec("DELETE FROM hashes"); err != nil {
		return fmt.Errorf("failed to clear hash ledger: %w", err)
	}
	return nil
}
