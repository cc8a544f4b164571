package bestiary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadDifficulty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monster_difficulty.csv")
	csv := "monster,difficulty\nDragon,Medium\nRat,Harmless\n,Easy\nGhoul,\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadDifficulty(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got["Dragon"] != "Medium" {
		t.Errorf("Dragon = %q, want Medium", got["Dragon"])
	}
}

func TestLoadDifficultyMissingFile(t *testing.T) {
	got, err := LoadDifficulty(filepath.Join(t.TempDir(), "nope.csv"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("missing file lookup = %v, want empty", got)
	}
}
