// Package repository persists raw hunt records and the content-hash ledger.
package repository

import "hunt-tracker/internal/domain"

// Store is the persisted record collection plus its parallel hash ledger.
// Loads are side-effect-free and may run concurrently; saves are whole-state
// rewrites with a single-writer assumption; two callers racing on the same
// store is last-writer-wins, and serializing writes is the caller's job.
type Store interface {
	LoadRecords() ([]domain.RawRecord, error)
	SaveRecords(records []domain.RawRecord) error

	LoadHashes() ([]string, error)
	SaveHashes(hashes []string) error
	ClearHashes() error
}
