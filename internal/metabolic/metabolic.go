// Package metabolic holds the resting and total energy expenditure formulas
// used to derive a user's daily calorie target from their body profile.
package metabolic

import (
	"fmt"
	"strings"
)

// Gender selects the sex constant of the Mifflin-St Jeor equation. Only two
// variants are modeled; ParseGender rejects anything else.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// ParseGender accepts "male"/"female" in any case.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return Male, nil
	case "female":
		return Female, nil
	}
	return "", fmt.Errorf("gender must be one of: Male, Female")
}

// ActivityLevel keys the TDEE multiplier table.
type ActivityLevel string

const (
	Sedentary ActivityLevel = "Sedentary"
	Light     ActivityLevel = "Light"
	Moderate  ActivityLevel = "Moderate"
	Intense   ActivityLevel = "Intense"
)

// activityMultipliers maps activity levels to their TDEE multiplier.
// This is the single source of truth for valid activity levels, also used by
// ParseActivityLevel for input validation.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary: 1.2,
	Light:     1.375,
	Moderate:  1.55,
	Intense:   1.725,
}

// Levels lists the activity levels in increasing order of intensity.
func Levels() []ActivityLevel {
	return []ActivityLevel{Sedentary, Light, Moderate, Intense}
}

// ParseActivityLevel matches s case-insensitively against the known levels.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	s = strings.TrimSpace(s)
	for _, lvl := range Levels() {
		if strings.EqualFold(s, string(lvl)) {
			return lvl, nil
		}
	}
	return "", fmt.Errorf("activity level must be one of: Sedentary, Light, Moderate, Intense")
}

// Multiplier returns the TDEE multiplier for level, falling back to the
// Sedentary multiplier for unknown levels.
func Multiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[Sedentary]
}

// BMR computes basal metabolic rate via Mifflin-St Jeor:
// 10*weight + 6.25*height - 5*age + s, with s = +5 for Male and -161 otherwise.
// Any gender other than Male takes the -161 branch.
func BMR(weightKG, heightCM float64, age int, g Gender) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if g == Male {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE scales bmr by the activity multiplier.
func TDEE(bmr float64, level ActivityLevel) float64 {
	return bmr * Multiplier(level)
}
