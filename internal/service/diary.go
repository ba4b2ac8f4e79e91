package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/store"
)

// DefaultMeasure is used when a custom food or catalog item has no measure.
const DefaultMeasure = "1 serving"

/* ─── Food ───────────────────────────────────────────────────────────── */

// FoodInput describes one food entry. When TemplateID names a catalog item
// visible to the user, the item's name, measure and nutrition are used and
// the custom fields are ignored. Otherwise the entry is custom and Name is
// required. Nutrition fields are per serving; the stored entry is scaled by
// Qty.
type FoodInput struct {
	Date       model.Date
	TemplateID *int64
	Qty        float64

	Name    string
	Measure string
	Kcal    float64
	Protein float64
	Fat     float64
	Carbs   float64
}

// LogFood records a food entry. A custom entry whose name matches no visible
// catalog item (case-insensitively) is also saved as a personal item in the
// "Custom" category for reuse.
func (t *Tracker) LogFood(ctx context.Context, userID int64, in FoodInput) (model.FoodLog, error) {
	if !finite(in.Qty) || in.Qty <= 0 {
		return model.FoodLog{}, model.Invalid("qty", "must be greater than 0")
	}

	var saved model.FoodLog
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		tmpl, ok, err := resolveTemplate(ctx, tx, userID, in.TemplateID)
		if err != nil {
			return err
		}
		if !ok {
			if tmpl, err = customTemplate(ctx, tx, userID, in); err != nil {
				return err
			}
		}
		entry := model.FoodLog{
			UserID:   userID,
			Date:     in.Date,
			FoodName: tmpl.Name,
			Measure:  tmpl.Measure,
			Qty:      in.Qty,
			Kcal:     tmpl.Kcal * in.Qty,
			Protein:  tmpl.Protein * in.Qty,
			Fat:      tmpl.Fat * in.Qty,
			Carbs:    tmpl.Carbs * in.Qty,
		}
		if validNutrition(entry.Kcal, entry.Protein, entry.Fat, entry.Carbs) != nil {
			return model.Invalid("qty", "scales nutrition out of range")
		}
		saved, err = tx.InsertFoodLog(ctx, entry)
		return err
	})
	if err != nil {
		log.Printf("[LogFood] user id=%d: %v", userID, err)
	}
	return saved, err
}

// resolveTemplate looks up id and reports ok only when the item exists and is
// visible to userID.
func resolveTemplate(ctx context.Context, tx store.Tx, userID int64, id *int64) (model.FoodItem, bool, error) {
	if id == nil {
		return model.FoodItem{}, false, nil
	}
	it, err := tx.FoodItemByID(ctx, *id)
	if errors.Is(err, model.ErrNotFound) {
		return model.FoodItem{}, false, nil
	}
	if err != nil {
		return model.FoodItem{}, false, err
	}
	return it, it.VisibleTo(userID), nil
}

func customTemplate(ctx context.Context, tx store.Tx, userID int64, in FoodInput) (model.FoodItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.FoodItem{}, model.Invalid("name", "enter a food name")
	}
	if err := maxLen("name", name, maxNameLen); err != nil {
		return model.FoodItem{}, err
	}
	if err := validNutrition(in.Kcal, in.Protein, in.Fat, in.Carbs); err != nil {
		return model.FoodItem{}, err
	}
	measure := strings.TrimSpace(in.Measure)
	if measure == "" {
		measure = DefaultMeasure
	}
	if err := maxLen("measure", measure, maxMeasureLen); err != nil {
		return model.FoodItem{}, err
	}
	tmpl := model.FoodItem{
		Name: name, Measure: measure,
		Kcal: in.Kcal, Protein: in.Protein, Fat: in.Fat, Carbs: in.Carbs,
		Category: "Custom", OwnerID: &userID,
	}

	visible, err := tx.FoodItems(ctx, &userID)
	if err != nil {
		return model.FoodItem{}, err
	}
	for _, it := range visible {
		if strings.EqualFold(it.Name, name) {
			return tmpl, nil
		}
	}
	if _, err := tx.InsertFoodItem(ctx, tmpl); err != nil {
		return model.FoodItem{}, err
	}
	return tmpl, nil
}

// DeleteFoodLogs removes the caller's entries among ids; other ids are ignored.
func (t *Tracker) DeleteFoodLogs(ctx context.Context, userID int64, ids []int64) error {
	return t.store.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.DeleteFoodLogs(ctx, userID, ids)
		return err
	})
}

/* ─── Exercise ───────────────────────────────────────────────────────── */

// ExerciseInput is one timed session. Start and End are wall-clock times on
// Date; an End not after Start crosses midnight.
type ExerciseInput struct {
	Date  model.Date
	Type  string
	Start model.ClockTime
	End   model.ClockTime
}

// LogExercise estimates duration and burn from the MET table and the weight
// on the user's profile, which must exist.
func (t *Tracker) LogExercise(ctx context.Context, userID int64, in ExerciseInput) (model.ExerciseLog, error) {
	kind := strings.TrimSpace(in.Type)
	if kind == "" {
		return model.ExerciseLog{}, model.Invalid("type", "is required")
	}
	if err := maxLen("type", kind, maxTypeLen); err != nil {
		return model.ExerciseLog{}, err
	}

	var saved model.ExerciseLog
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		p, err := tx.ProfileByUser(ctx, userID)
		if errors.Is(err, model.ErrNotFound) {
			return model.Invalid("profile", "complete your profile first")
		}
		if err != nil {
			return err
		}
		est := t.mets.Estimate(kind, in.Start, in.End, p.WeightKG)
		saved, err = tx.InsertExerciseLog(ctx, model.ExerciseLog{
			UserID:   userID,
			Date:     in.Date,
			Type:     kind,
			Start:    in.Start,
			End:      in.End,
			Minutes:  est.Minutes,
			KcalBurn: est.Kcal,
		})
		return err
	})
	if err != nil {
		log.Printf("[LogExercise] user id=%d: %v", userID, err)
	}
	return saved, err
}

func (t *Tracker) DeleteExerciseLogs(ctx context.Context, userID int64, ids []int64) error {
	return t.store.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.DeleteExerciseLogs(ctx, userID, ids)
		return err
	})
}

/* ─── Weight ─────────────────────────────────────────────────────────── */

// LogWeight records a weigh-in and makes it the profile's current weight. A
// user without a profile gets one with default metrics and this weight.
func (t *Tracker) LogWeight(ctx context.Context, userID int64, date model.Date, weightKG float64) (model.WeightEntry, error) {
	if !finite(weightKG) || weightKG <= 0 {
		return model.WeightEntry{}, model.Invalid("weight", "must be greater than 0")
	}

	var saved model.WeightEntry
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		saved, err = tx.InsertWeightEntry(ctx, model.WeightEntry{UserID: userID, Date: date, Weight: weightKG})
		if err != nil {
			return err
		}
		p, err := tx.ProfileByUser(ctx, userID)
		if errors.Is(err, model.ErrNotFound) {
			p = model.DefaultProfile(userID)
		} else if err != nil {
			return err
		}
		p.WeightKG = weightKG
		_, err = tx.UpsertProfile(ctx, p)
		return err
	})
	if err != nil {
		log.Printf("[LogWeight] user id=%d: %v", userID, err)
	}
	return saved, err
}

// WeightHistory returns every weigh-in, oldest first.
func (t *Tracker) WeightHistory(ctx context.Context, userID int64) ([]model.WeightEntry, error) {
	var hist []model.WeightEntry
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		hist, err = tx.WeightHistory(ctx, userID)
		return err
	})
	return hist, err
}

/* ─── Workouts ───────────────────────────────────────────────────────── */

// DefaultWorkoutCategory applies when a workout has no category.
const DefaultWorkoutCategory = "Strength"

type WorkoutInput struct {
	Date     model.Date
	Category string
	Exercise string
	Sets     int
	Reps     int
	Weight   float64
	Notes    string
}

func (t *Tracker) LogWorkout(ctx context.Context, userID int64, in WorkoutInput) (model.WorkoutLog, error) {
	w := model.WorkoutLog{
		UserID:   userID,
		Date:     in.Date,
		Category: strings.TrimSpace(in.Category),
		Exercise: strings.TrimSpace(in.Exercise),
		Sets:     in.Sets,
		Reps:     in.Reps,
		Weight:   in.Weight,
		Notes:    strings.TrimSpace(in.Notes),
	}
	if w.Category == "" {
		w.Category = DefaultWorkoutCategory
	}
	switch {
	case w.Exercise == "":
		return model.WorkoutLog{}, model.Invalid("exercise", "is required")
	case w.Sets < 0:
		return model.WorkoutLog{}, model.Invalid("sets", "must not be negative")
	case w.Reps < 0:
		return model.WorkoutLog{}, model.Invalid("reps", "must not be negative")
	case !finite(w.Weight) || w.Weight < 0:
		return model.WorkoutLog{}, model.Invalid("weight", "must not be negative")
	}
	if err := maxLen("exercise", w.Exercise, maxNameLen); err != nil {
		return model.WorkoutLog{}, err
	}
	if err := maxLen("category", w.Category, maxCategoryLen); err != nil {
		return model.WorkoutLog{}, err
	}

	var saved model.WorkoutLog
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		saved, err = tx.InsertWorkoutLog(ctx, w)
		return err
	})
	if err != nil {
		log.Printf("[LogWorkout] user id=%d: %v", userID, err)
	}
	return saved, err
}

// Workouts lists the user's workouts, newest first.
func (t *Tracker) Workouts(ctx context.Context, userID int64) ([]model.WorkoutLog, error) {
	var ws []model.WorkoutLog
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		ws, err = tx.WorkoutLogs(ctx, userID)
		return err
	})
	return ws, err
}

func (t *Tracker) DeleteWorkouts(ctx context.Context, userID int64, ids []int64) error {
	return t.store.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.DeleteWorkoutLogs(ctx, userID, ids)
		return err
	})
}
