package normalize

import "testing"

func TestDurationSeconds(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"integer seconds", 4920, 4920},
		{"json number", float64(4920), 4920},
		{"clock format", "01:22h", 4920},
		{"clock format uppercase", "01:22H", 4920},
		{"hours and minutes", "1h 2min", 3720},
		{"hours only", "2h", 7200},
		{"minutes only", "62min", 3720},
		{"numeric string", "90", 90},
		{"negative clamps", -5, 0},
		{"nil", nil, 0},
		{"garbage", "soon", 0},
		{"empty string", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DurationSeconds(tc.in); got != tc.want {
				t.Errorf("DurationSeconds(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestSessionSeconds(t *testing.T) {
	got := SessionSeconds("2024-03-01, 20:00:00", "2024-03-01, 21:22:00")
	if got != 4920 {
		t.Errorf("SessionSeconds = %d, want 4920", got)
	}

	// End before start degrades to 0.
	if got := SessionSeconds("2024-03-01, 21:00:00", "2024-03-01, 20:00:00"); got != 0 {
		t.Errorf("reversed interval = %d, want 0", got)
	}

	if got := SessionSeconds("", "2024-03-01, 21:00:00"); got != 0 {
		t.Errorf("missing start = %d, want 0", got)
	}

	if got := SessionSeconds("not a date", "also not"); got != 0 {
		t.Errorf("garbage timestamps = %d, want 0", got)
	}
}
