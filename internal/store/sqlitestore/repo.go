package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"lg/weight-tracker-api/internal/model"
)

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

/* ─── Users ──────────────────────────────────────────────────────────── */

func (t *Txn) CreateUser(ctx context.Context, username, hash, salt string) (model.User, error) {
	var u model.User
	err := t.insert(ctx, &u, "users", qb.Insert("users").
		Columns("username", "password_hash", "password_salt").
		Values(username, hash, salt))
	if isUniqueViolation(err) {
		return model.User{}, model.ErrDuplicateUsername
	}
	return u, err
}

func (t *Txn) UserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := t.get(ctx, &u, qb.Select("*").From("users").Where(sq.Eq{"username": username}))
	return u, notFound(err)
}

func (t *Txn) UserByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := t.get(ctx, &u, qb.Select("*").From("users").Where(sq.Eq{"id": id}))
	return u, notFound(err)
}

func (t *Txn) DeleteUser(ctx context.Context, id int64) (int64, error) {
	return t.exec(ctx, qb.Delete("users").Where(sq.Eq{"id": id}))
}

/* ─── Profiles ───────────────────────────────────────────────────────── */

func (t *Txn) ProfileByUser(ctx context.Context, userID int64) (model.Profile, error) {
	var p model.Profile
	err := t.get(ctx, &p, qb.Select("*").From("profiles").Where(sq.Eq{"user_id": userID}))
	return p, notFound(err)
}

// UpsertProfile keeps one row per user; a second save overwrites the first.
func (t *Txn) UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	_, err := t.exec(ctx, qb.Insert("profiles").
		Columns("user_id", "age", "gender", "height_cm", "weight_kg", "activity", "deficit").
		Values(p.UserID, p.Age, string(p.Gender), p.HeightCM, p.WeightKG, string(p.Activity), p.Deficit).
		Suffix(`ON CONFLICT(user_id) DO UPDATE SET
			age = excluded.age,
			gender = excluded.gender,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			activity = excluded.activity,
			deficit = excluded.deficit`))
	if err != nil {
		return model.Profile{}, err
	}
	return t.ProfileByUser(ctx, p.UserID)
}

/* ─── Food log ───────────────────────────────────────────────────────── */

func (t *Txn) InsertFoodLog(ctx context.Context, e model.FoodLog) (model.FoodLog, error) {
	var saved model.FoodLog
	err := t.insert(ctx, &saved, "food_logs", qb.Insert("food_logs").
		Columns("user_id", "date", "food_name", "measure", "qty", "kcal", "protein", "fat", "carbs").
		Values(e.UserID, e.Date.String(), e.FoodName, e.Measure, e.Qty, e.Kcal, e.Protein, e.Fat, e.Carbs))
	return saved, err
}

func (t *Txn) FoodLogsOn(ctx context.Context, userID int64, date model.Date) ([]model.FoodLog, error) {
	logs := []model.FoodLog{}
	err := t.selectAll(ctx, &logs, qb.Select("*").From("food_logs").
		Where(sq.Eq{"user_id": userID, "date": date.String()}).
		OrderBy("id"))
	return logs, err
}

func (t *Txn) DeleteFoodLogs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return t.deleteOwned(ctx, "food_logs", "user_id", userID, ids)
}

/* ─── Exercise log ───────────────────────────────────────────────────── */

func (t *Txn) InsertExerciseLog(ctx context.Context, e model.ExerciseLog) (model.ExerciseLog, error) {
	var saved model.ExerciseLog
	err := t.insert(ctx, &saved, "exercise_logs", qb.Insert("exercise_logs").
		Columns("user_id", "date", "type", "start_time", "end_time", "mins", "kcal_burn").
		Values(e.UserID, e.Date.String(), e.Type, e.Start.String(), e.End.String(), e.Minutes, e.KcalBurn))
	return saved, err
}

func (t *Txn) ExerciseLogsOn(ctx context.Context, userID int64, date model.Date) ([]model.ExerciseLog, error) {
	logs := []model.ExerciseLog{}
	err := t.selectAll(ctx, &logs, qb.Select("*").From("exercise_logs").
		Where(sq.Eq{"user_id": userID, "date": date.String()}).
		OrderBy("id"))
	return logs, err
}

func (t *Txn) DeleteExerciseLogs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return t.deleteOwned(ctx, "exercise_logs", "user_id", userID, ids)
}

/* ─── Workouts ───────────────────────────────────────────────────────── */

func (t *Txn) InsertWorkoutLog(ctx context.Context, w model.WorkoutLog) (model.WorkoutLog, error) {
	var saved model.WorkoutLog
	err := t.insert(ctx, &saved, "workout_logs", qb.Insert("workout_logs").
		Columns("user_id", "date", "category", "exercise", "sets", "reps", "weight", "notes").
		Values(w.UserID, w.Date.String(), w.Category, w.Exercise, w.Sets, w.Reps, w.Weight, w.Notes))
	return saved, err
}

func (t *Txn) WorkoutLogs(ctx context.Context, userID int64) ([]model.WorkoutLog, error) {
	logs := []model.WorkoutLog{}
	err := t.selectAll(ctx, &logs, qb.Select("*").From("workout_logs").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("date DESC", "id DESC"))
	return logs, err
}

func (t *Txn) DeleteWorkoutLogs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return t.deleteOwned(ctx, "workout_logs", "user_id", userID, ids)
}

/* ─── Weight ─────────────────────────────────────────────────────────── */

func (t *Txn) InsertWeightEntry(ctx context.Context, w model.WeightEntry) (model.WeightEntry, error) {
	var saved model.WeightEntry
	err := t.insert(ctx, &saved, "weight_logs", qb.Insert("weight_logs").
		Columns("user_id", "date", "weight").
		Values(w.UserID, w.Date.String(), w.Weight))
	return saved, err
}

func (t *Txn) WeightHistory(ctx context.Context, userID int64) ([]model.WeightEntry, error) {
	entries := []model.WeightEntry{}
	err := t.selectAll(ctx, &entries, qb.Select("*").From("weight_logs").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("date ASC", "id ASC"))
	return entries, err
}

/* ─── Catalog ────────────────────────────────────────────────────────── */

func (t *Txn) FoodItems(ctx context.Context, userID *int64) ([]model.FoodItem, error) {
	visible := sq.Or{sq.Eq{"owner_id": nil}}
	if userID != nil {
		visible = append(visible, sq.Eq{"owner_id": *userID})
	}
	items := []model.FoodItem{}
	err := t.selectAll(ctx, &items, qb.Select("*").From("food_items").
		Where(visible).
		OrderBy("name ASC", "id ASC"))
	return items, err
}

func (t *Txn) FoodItemByID(ctx context.Context, id int64) (model.FoodItem, error) {
	var it model.FoodItem
	err := t.get(ctx, &it, qb.Select("*").From("food_items").Where(sq.Eq{"id": id}))
	return it, notFound(err)
}

func (t *Txn) InsertFoodItem(ctx context.Context, it model.FoodItem) (model.FoodItem, error) {
	var saved model.FoodItem
	err := t.insert(ctx, &saved, "food_items", qb.Insert("food_items").
		Columns("name", "measure", "kcal", "protein", "fat", "carbs", "category", "owner_id").
		Values(it.Name, it.Measure, it.Kcal, it.Protein, it.Fat, it.Carbs, it.Category, it.OwnerID))
	if isUniqueViolation(err) {
		return model.FoodItem{}, model.ErrDuplicateItem
	}
	return saved, err
}

func (t *Txn) DeleteFoodItems(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	return t.deleteOwned(ctx, "food_items", "owner_id", ownerID, ids)
}

func (t *Txn) CountFoodItems(ctx context.Context) (int64, error) {
	var n int64
	err := t.get(ctx, &n, qb.Select("COUNT(*)").From("food_items"))
	return n, err
}

func (t *Txn) deleteOwned(ctx context.Context, table, ownerCol string, owner int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return t.exec(ctx, qb.Delete(table).Where(sq.Eq{ownerCol: owner, "id": ids}))
}
