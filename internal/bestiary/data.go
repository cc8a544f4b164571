package bestiary

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LoadDifficulty reads a monster,difficulty CSV into a lookup map. A missing
// file is not an error, just an empty lookup; the estimator then reports
// every monster's difficulty as unknown.
func LoadDifficulty(path string, logger zerolog.Logger) (map[string]string, error) {
	out := make(map[string]string)
	if path == "" {
		return out, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("monster difficulty file not found, bestiary lookup empty")
			return out, nil
		}
		return nil, fmt.Errorf("failed to open difficulty file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read difficulty header: %w", err)
	}

	monsterIdx, diffIdx := 0, 1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "monster":
			monsterIdx = i
		case "difficulty":
			diffIdx = i
		}
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read difficulty row: %w", err)
		}
		if len(rec) <= monsterIdx || len(rec) <= diffIdx {
			continue
		}
		monster := strings.TrimSpace(rec[monsterIdx])
		diff := strings.TrimSpace(rec[diffIdx])
		if monster != "" && diff != "" {
			out[monster] = diff
		}
	}

	logger.Info().Str("path", path).Int("monsters", len(out)).Msg("monster difficulty lookup loaded")
	return out, nil
}
