package bestiary

import "testing"

func TestNormalizeDifficulty(t *testing.T) {
	cases := map[string]string{
		"Medium":      "Medium",
		"medium":      "Medium",
		"CHALLENGING": "Challenging",
		" harmless ":  "Harmless",
		"Impossible":  "",
		"":            "",
	}
	for in, want := range cases {
		if got := NormalizeDifficulty(in); got != want {
			t.Errorf("NormalizeDifficulty(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEstimateMedium(t *testing.T) {
	e := Estimate("Dragon", 50, "Medium", 0)
	if e.RequiredKills != 1000 {
		t.Errorf("RequiredKills = %d, want 1000", e.RequiredKills)
	}
	if e.ETAHours == nil {
		t.Fatal("expected ETA")
	}
	if *e.ETAHours != 20.0 {
		t.Errorf("ETAHours = %v, want 20.0", *e.ETAHours)
	}
}

func TestEstimateZeroKPH(t *testing.T) {
	e := Estimate("Dragon", 0, "Medium", 0)
	if e.ETAHours != nil {
		t.Errorf("ETAHours = %v, want nil for zero kph", *e.ETAHours)
	}
}

func TestEstimateUnknownDifficulty(t *testing.T) {
	e := Estimate("Dragon", 50, "Mythic", 0)
	if e.ETAHours != nil {
		t.Error("unknown difficulty should have nil ETA")
	}
	if e.RequiredKills != 0 {
		t.Errorf("RequiredKills = %d, want 0", e.RequiredKills)
	}
}

func TestEstimateProgress(t *testing.T) {
	e := Estimate("Dragon", 100, "Easy", 400)
	if e.ETAHours == nil || *e.ETAHours != 1.0 {
		t.Fatalf("ETAHours = %v, want 1.0", e.ETAHours)
	}

	// Threshold already met.
	e = Estimate("Dragon", 100, "Easy", 600)
	if e.ETAHours == nil || *e.ETAHours != 0 {
		t.Fatalf("met threshold ETA = %v, want 0", e.ETAHours)
	}

	// Negative progress clamps to zero.
	e = Estimate("Dragon", 100, "Harmless", -10)
	if e.ETAHours == nil || *e.ETAHours != 0.25 {
		t.Fatalf("clamped ETA = %v, want 0.25", e.ETAHours)
	}
}

func TestZoneEstimatesSorted(t *testing.T) {
	kph := map[string]float64{"Wolf": 10, "Bear": 20}
	diff := map[string]string{"Wolf": "Trivial", "Bear": "Harmless"}

	out := ZoneEstimates(kph, diff, map[string]int{"Wolf": 50})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Monster != "Bear" || out[1].Monster != "Wolf" {
		t.Errorf("order = %q, %q; want Bear, Wolf", out[0].Monster, out[1].Monster)
	}
	if out[1].CurrentKills != 50 {
		t.Errorf("Wolf CurrentKills = %d, want 50", out[1].CurrentKills)
	}
}
