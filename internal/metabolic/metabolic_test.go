package metabolic

import (
	"math"
	"testing"
)

/* ─── BMR accuracy tests ─────────────────────────────────────────────── */

// TestBMR_Male verifies the male Mifflin-St Jeor constant.
// 10*70 + 6.25*175 - 5*30 + 5 = 1648.75
func TestBMR_Male(t *testing.T) {
	got := BMR(70, 175, 30, Male)
	if got != 1648.75 {
		t.Errorf("male BMR = %v, want 1648.75", got)
	}
}

// TestBMR_Female verifies the female constant (-161 instead of +5).
func TestBMR_Female(t *testing.T) {
	got := BMR(70, 175, 30, Female)
	if got != 1482.75 {
		t.Errorf("female BMR = %v, want 1482.75", got)
	}
}

// TestBMR_UnknownGenderTakesFemaleBranch pins the documented fallback for
// values that bypass ParseGender.
func TestBMR_UnknownGenderTakesFemaleBranch(t *testing.T) {
	if got, want := BMR(70, 175, 30, Gender("other")), BMR(70, 175, 30, Female); got != want {
		t.Errorf("unknown gender BMR = %v, want %v", got, want)
	}
}

/* ─── TDEE tests ─────────────────────────────────────────────────────── */

func TestTDEE_Multipliers(t *testing.T) {
	cases := []struct {
		level ActivityLevel
		want  float64
	}{
		{Sedentary, 1866.9},
		{Light, 1555.75 * 1.375},
		{Moderate, 1555.75 * 1.55},
		{Intense, 1555.75 * 1.725},
	}
	for _, tc := range cases {
		t.Run(string(tc.level), func(t *testing.T) {
			got := TDEE(1555.75, tc.level)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("TDEE(%s) = %v, want %v", tc.level, got, tc.want)
			}
		})
	}
}

// TestTDEE_UnknownLevelFallsBackToSedentary verifies that an unknown level is
// not an error and uses the Sedentary multiplier.
func TestTDEE_UnknownLevelFallsBackToSedentary(t *testing.T) {
	got := TDEE(1555.75, ActivityLevel("couch"))
	if math.Abs(got-1866.9) > 1e-9 {
		t.Errorf("TDEE(unknown) = %v, want 1866.9", got)
	}
}

/* ─── Parsing tests ──────────────────────────────────────────────────── */

func TestParseGender(t *testing.T) {
	for in, want := range map[string]Gender{"Male": Male, "male": Male, " FEMALE ": Female} {
		got, err := ParseGender(in)
		if err != nil || got != want {
			t.Errorf("ParseGender(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseGender("unknown"); err == nil {
		t.Error("expected error for unknown gender, got nil")
	}
}

func TestParseActivityLevel(t *testing.T) {
	got, err := ParseActivityLevel("moderate")
	if err != nil || got != Moderate {
		t.Errorf("ParseActivityLevel(moderate) = %q, %v", got, err)
	}
	if _, err := ParseActivityLevel("very_active"); err == nil {
		t.Error("expected error for unknown activity level, got nil")
	}
}
