package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"lg/weight-tracker-api/internal/model"
)

// notFound maps pgx.ErrNoRows to model.ErrNotFound and leaves other errors alone.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

/* ─── Users ──────────────────────────────────────────────────────────── */

func (t *Txn) CreateUser(ctx context.Context, username, hash, salt string) (model.User, error) {
	u, err := queryOne[model.User](ctx, t.tx,
		`INSERT INTO users (username, password_hash, password_salt)
		 VALUES (@username, @hash, @salt)
		 RETURNING *`,
		pgx.NamedArgs{"username": username, "hash": hash, "salt": salt})
	if isUniqueViolation(err) {
		return model.User{}, model.ErrDuplicateUsername
	}
	return u, err
}

func (t *Txn) UserByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := queryOne[model.User](ctx, t.tx,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	return u, notFound(err)
}

func (t *Txn) UserByID(ctx context.Context, id int64) (model.User, error) {
	u, err := queryOne[model.User](ctx, t.tx,
		"SELECT * FROM users WHERE id = @id",
		pgx.NamedArgs{"id": id})
	return u, notFound(err)
}

func (t *Txn) DeleteUser(ctx context.Context, id int64) (int64, error) {
	return exec(ctx, t.tx, "DELETE FROM users WHERE id = @id", pgx.NamedArgs{"id": id})
}

/* ─── Profiles ───────────────────────────────────────────────────────── */

func (t *Txn) ProfileByUser(ctx context.Context, userID int64) (model.Profile, error) {
	p, err := queryOne[model.Profile](ctx, t.tx,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	return p, notFound(err)
}

// UpsertProfile relies on the UNIQUE(user_id) constraint: saving again for the
// same user updates the row in place (last write wins).
func (t *Txn) UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	return queryOne[model.Profile](ctx, t.tx,
		`INSERT INTO profiles (user_id, age, gender, height_cm, weight_kg, activity, deficit)
		 VALUES (@userID, @age, @gender, @heightCM, @weightKG, @activity, @deficit)
		 ON CONFLICT (user_id) DO UPDATE SET
			age       = EXCLUDED.age,
			gender    = EXCLUDED.gender,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			activity  = EXCLUDED.activity,
			deficit   = EXCLUDED.deficit
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": p.UserID, "age": p.Age, "gender": string(p.Gender),
			"heightCM": p.HeightCM, "weightKG": p.WeightKG,
			"activity": string(p.Activity), "deficit": p.Deficit,
		})
}

/* ─── Food log ───────────────────────────────────────────────────────── */

func (t *Txn) InsertFoodLog(ctx context.Context, e model.FoodLog) (model.FoodLog, error) {
	return queryOne[model.FoodLog](ctx, t.tx,
		`INSERT INTO food_logs (user_id, date, food_name, measure, qty, kcal, protein, fat, carbs)
		 VALUES (@userID, @date, @foodName, @measure, @qty, @kcal, @protein, @fat, @carbs)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": e.UserID, "date": e.Date.String(), "foodName": e.FoodName,
			"measure": e.Measure, "qty": e.Qty, "kcal": e.Kcal,
			"protein": e.Protein, "fat": e.Fat, "carbs": e.Carbs,
		})
}

func (t *Txn) FoodLogsOn(ctx context.Context, userID int64, date model.Date) ([]model.FoodLog, error) {
	return queryMany[model.FoodLog](ctx, t.tx,
		`SELECT * FROM food_logs
		 WHERE user_id = @userID AND date = @date
		 ORDER BY id`,
		pgx.NamedArgs{"userID": userID, "date": date.String()})
}

func (t *Txn) DeleteFoodLogs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return deleteOwned(ctx, t.tx, "food_logs", "user_id", userID, ids)
}

/* ─── Exercise log ───────────────────────────────────────────────────── */

func (t *Txn) InsertExerciseLog(ctx context.Context, e model.ExerciseLog) (model.ExerciseLog, error) {
	return queryOne[model.ExerciseLog](ctx, t.tx,
		`INSERT INTO exercise_logs (user_id, date, type, start_time, end_time, mins, kcal_burn)
		 VALUES (@userID, @date, @type, @start, @end, @mins, @kcalBurn)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": e.UserID, "date": e.Date.String(), "type": e.Type,
			"start": e.Start.String(), "end": e.End.String(),
			"mins": e.Minutes, "kcalBurn": e.KcalBurn,
		})
}

func (t *Txn) ExerciseLogsOn(ctx context.Context, userID int64, date model.Date) ([]model.ExerciseLog, error) {
	return queryMany[model.ExerciseLog](ctx, t.tx,
		`SELECT * FROM exercise_logs
		 WHERE user_id = @userID AND date = @date
		 ORDER BY id`,
		pgx.NamedArgs{"userID": userID, "date": date.String()})
}

func (t *Txn) DeleteExerciseLogs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return deleteOwned(ctx, t.tx, "exercise_logs", "user_id", userID, ids)
}

/* ─── Workouts ───────────────────────────────────────────────────────── */

func (t *Txn) InsertWorkoutLog(ctx context.Context, w model.WorkoutLog) (model.WorkoutLog, error) {
	return queryOne[model.WorkoutLog](ctx, t.tx,
		`INSERT INTO workout_logs (user_id, date, category, exercise, sets, reps, weight, notes)
		 VALUES (@userID, @date, @category, @exercise, @sets, @reps, @weight, @notes)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": w.UserID, "date": w.Date.String(), "category": w.Category,
			"exercise": w.Exercise, "sets": w.Sets, "reps": w.Reps,
			"weight": w.Weight, "notes": w.Notes,
		})
}

func (t *Txn) WorkoutLogs(ctx context.Context, userID int64) ([]model.WorkoutLog, error) {
	return queryMany[model.WorkoutLog](ctx, t.tx,
		`SELECT * FROM workout_logs
		 WHERE user_id = @userID
		 ORDER BY date DESC, id DESC`,
		pgx.NamedArgs{"userID": userID})
}

func (t *Txn) DeleteWorkoutLogs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return deleteOwned(ctx, t.tx, "workout_logs", "user_id", userID, ids)
}

/* ─── Weight ─────────────────────────────────────────────────────────── */

func (t *Txn) InsertWeightEntry(ctx context.Context, w model.WeightEntry) (model.WeightEntry, error) {
	return queryOne[model.WeightEntry](ctx, t.tx,
		`INSERT INTO weight_logs (user_id, date, weight)
		 VALUES (@userID, @date, @weight)
		 RETURNING *`,
		pgx.NamedArgs{"userID": w.UserID, "date": w.Date.String(), "weight": w.Weight})
}

func (t *Txn) WeightHistory(ctx context.Context, userID int64) ([]model.WeightEntry, error) {
	return queryMany[model.WeightEntry](ctx, t.tx,
		`SELECT * FROM weight_logs
		 WHERE user_id = @userID
		 ORDER BY date ASC, id ASC`,
		pgx.NamedArgs{"userID": userID})
}

/* ─── Catalog ────────────────────────────────────────────────────────── */

func (t *Txn) FoodItems(ctx context.Context, userID *int64) ([]model.FoodItem, error) {
	return queryMany[model.FoodItem](ctx, t.tx,
		`SELECT * FROM food_items
		 WHERE owner_id IS NULL OR owner_id = @userID
		 ORDER BY name ASC, id ASC`,
		pgx.NamedArgs{"userID": userID})
}

func (t *Txn) FoodItemByID(ctx context.Context, id int64) (model.FoodItem, error) {
	it, err := queryOne[model.FoodItem](ctx, t.tx,
		"SELECT * FROM food_items WHERE id = @id",
		pgx.NamedArgs{"id": id})
	return it, notFound(err)
}

func (t *Txn) InsertFoodItem(ctx context.Context, it model.FoodItem) (model.FoodItem, error) {
	created, err := queryOne[model.FoodItem](ctx, t.tx,
		`INSERT INTO food_items (name, measure, kcal, protein, fat, carbs, category, owner_id)
		 VALUES (@name, @measure, @kcal, @protein, @fat, @carbs, @category, @ownerID)
		 RETURNING *`,
		pgx.NamedArgs{
			"name": it.Name, "measure": it.Measure, "kcal": it.Kcal,
			"protein": it.Protein, "fat": it.Fat, "carbs": it.Carbs,
			"category": it.Category, "ownerID": it.OwnerID,
		})
	if isUniqueViolation(err) {
		return model.FoodItem{}, model.ErrDuplicateItem
	}
	return created, err
}

// DeleteFoodItems only touches rows owned by ownerID; global items and other
// users' items are silently skipped.
func (t *Txn) DeleteFoodItems(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	return deleteOwned(ctx, t.tx, "food_items", "owner_id", ownerID, ids)
}

func (t *Txn) CountFoodItems(ctx context.Context) (int64, error) {
	var n int64
	err := t.tx.QueryRow(ctx, "SELECT COUNT(*) FROM food_items").Scan(&n)
	return n, err
}

// deleteOwned removes ids from table where ownerCol matches. The table and
// column names are package constants, never user input.
func deleteOwned(ctx context.Context, tx pgx.Tx, table, ownerCol string, owner int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return exec(ctx, tx,
		"DELETE FROM "+table+" WHERE "+ownerCol+" = @owner AND id = ANY(@ids::bigint[])",
		pgx.NamedArgs{"owner": owner, "ids": ids})
}
