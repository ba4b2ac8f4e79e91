package service

import (
	"math"
	"unicode/utf8"

	"lg/weight-tracker-api/internal/model"
)

// Column widths of the Postgres schema. SQLite doesn't enforce them, so they
// are checked here to keep both backends answering the same way.
const (
	maxUsernameLen = 50
	maxNameLen     = 120
	maxMeasureLen  = 100
	maxCategoryLen = 50
	maxTypeLen     = 50
)

func maxLen(field, v string, n int) error {
	if utf8.RuneCountInString(v) > n {
		return model.Invalid(field, "must be at most %d characters", n)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// validNutrition rejects negative or non-finite nutrition values. JSON can't
// encode Inf or NaN, so one stored value would break every summary of its day.
func validNutrition(kcal, protein, fat, carbs float64) error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"kcal", kcal}, {"protein", protein}, {"fat", fat}, {"carbs", carbs}} {
		if !finite(f.v) {
			return model.Invalid(f.name, "must be a finite number")
		}
		if f.v < 0 {
			return model.Invalid(f.name, "must not be negative")
		}
	}
	return nil
}
