package aggregate

import (
	"testing"

	"hunt-tracker/internal/domain"
)

func TestKillsPerHourPooledHours(t *testing.T) {
	rows := []domain.HuntRow{
		{Zone: "Sewers", DurationSec: 7200, KillsByMonster: map[string]float64{"Rat": 10}},
		{Zone: "Sewers", DurationSec: 3600, KillsByMonster: map[string]float64{"Rat": 5}},
	}
	got := KillsPerHour(rows)
	if got["Rat"] != 5.0 {
		t.Errorf("Rat KPH = %v, want 5.0", got["Rat"])
	}
}

func TestKillsPerHourExcludesRowsWithoutKills(t *testing.T) {
	// The third row has no kill data; its hours must not dilute the rate.
	rows := []domain.HuntRow{
		{DurationSec: 3600, KillsByMonster: map[string]float64{"Cyclops": 60}},
		{DurationSec: 3600, KillsByMonster: map[string]float64{"Cyclops": 40}},
		{DurationSec: 36000, KillsByMonster: map[string]float64{}},
	}
	got := KillsPerHour(rows)
	if got["Cyclops"] != 50.0 {
		t.Errorf("Cyclops KPH = %v, want 50.0", got["Cyclops"])
	}
}

func TestKillsPerHourSkipsZeroHourRows(t *testing.T) {
	rows := []domain.HuntRow{
		{DurationSec: 0, KillsByMonster: map[string]float64{"Ghost": 10}},
	}
	if got := KillsPerHour(rows); len(got) != 0 {
		t.Errorf("zero-hour rows = %v, want empty", got)
	}
}

func TestKillsPerHourSkipsZeroCounts(t *testing.T) {
	rows := []domain.HuntRow{
		{DurationSec: 3600, KillsByMonster: map[string]float64{"Ghost": 0, "Bat": 12}},
	}
	got := KillsPerHour(rows)
	if _, ok := got["Ghost"]; ok {
		t.Error("zero-count monster should be excluded")
	}
	if got["Bat"] != 12 {
		t.Errorf("Bat KPH = %v, want 12", got["Bat"])
	}
}

func TestKillsPerHourRounding(t *testing.T) {
	rows := []domain.HuntRow{
		{DurationSec: 10800, KillsByMonster: map[string]float64{"Imp": 1}},
	}
	got := KillsPerHour(rows)
	if got["Imp"] != 0.3333 {
		t.Errorf("Imp KPH = %v, want 0.3333", got["Imp"])
	}
}
