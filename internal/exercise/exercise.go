// Package exercise estimates the energy cost of a timed exercise session
// from a MET table.
package exercise

import (
	"sort"

	"lg/weight-tracker-api/internal/model"
)

// DefaultMET applies to exercise types missing from the table (walking pace).
const DefaultMET = 3.5

// Table maps an exercise type to its MET value.
type Table map[string]float64

// DefaultTable is the built-in MET table. Extend it with Table.With rather than
// mutating it.
var DefaultTable = Table{
	"Walking":       3.5,
	"Jogging":       7,
	"Cycling":       6,
	"Weightlifting": 4,
}

// MET looks up kind, falling back to DefaultMET for unknown types.
func (t Table) MET(kind string) float64 {
	if met, ok := t[kind]; ok {
		return met
	}
	return DefaultMET
}

// With returns a copy of t with extra entries added or overridden.
func (t Table) With(extra map[string]float64) Table {
	out := make(Table, len(t)+len(extra))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Types lists the known exercise types alphabetically.
func (t Table) Types() []string {
	types := make([]string, 0, len(t))
	for k := range t {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// DurationMinutes measures the clock interval from start to end. When end is
// not after start the session is assumed to cross midnight, so start == end
// is a full 24 hours rather than zero.
func DurationMinutes(start, end model.ClockTime) float64 {
	endMin := end.Minutes()
	if endMin <= start.Minutes() {
		endMin += 24 * 60
	}
	return float64(endMin - start.Minutes())
}

// Burn is MET * 3.5 * weight / 200 per minute, times the duration.
func Burn(met, weightKG, minutes float64) float64 {
	return met * 3.5 * weightKG / 200 * minutes
}

// Estimate is the derived duration and calorie burn of one session.
type Estimate struct {
	Minutes float64
	Kcal    float64
}

// Estimate combines DurationMinutes and Burn for an exercise type.
func (t Table) Estimate(kind string, start, end model.ClockTime, weightKG float64) Estimate {
	mins := DurationMinutes(start, end)
	return Estimate{Minutes: mins, Kcal: Burn(t.MET(kind), weightKG, mins)}
}
