// Package storetest holds the behavioural contract every store backend must
// satisfy. Backends call Run from their own tests with a fresh, empty store.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/weight-tracker-api/internal/metabolic"
	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/store"
)

// Run executes the contract. open must return an empty, migrated store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"Users", testUsers},
		{"Profiles", testProfiles},
		{"FoodLogs", testFoodLogs},
		{"ExerciseLogs", testExerciseLogs},
		{"Workouts", testWorkouts},
		{"Weight", testWeight},
		{"Catalog", testCatalog},
		{"Rollback", testRollback},
		{"DeleteUserCascades", testDeleteUserCascades},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { s.Close() })
			tc.fn(t, s)
		})
	}
}

func inTx(t *testing.T, s store.Store, fn func(tx store.Tx) error) {
	t.Helper()
	require.NoError(t, s.InTx(context.Background(), fn))
}

func createUser(t *testing.T, s store.Store, username string) model.User {
	t.Helper()
	var u model.User
	inTx(t, s, func(tx store.Tx) error {
		var err error
		u, err = tx.CreateUser(context.Background(), username, "hash", "salt")
		return err
	})
	return u
}

var day = model.NewDate(2026, 3, 14)

/* ─── Cases ──────────────────────────────────────────────────────────── */

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.CreatedAt.IsZero())

	err := s.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.CreateUser(ctx, "alice", "h", "s")
		return err
	})
	assert.ErrorIs(t, err, model.ErrDuplicateUsername)

	inTx(t, s, func(tx store.Tx) error {
		got, err := tx.UserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
		assert.Equal(t, "salt", got.PasswordSalt)

		_, err = tx.UserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = tx.UserByID(ctx, u.ID+1000)
		assert.ErrorIs(t, err, model.ErrNotFound)
		return nil
	})
}

func testProfiles(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := createUser(t, s, "bob")

	inTx(t, s, func(tx store.Tx) error {
		_, err := tx.ProfileByUser(ctx, u.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		p := model.Profile{UserID: u.ID, Age: 30, Gender: metabolic.Male, HeightCM: 175,
			WeightKG: 70, Activity: metabolic.Light, Deficit: 500}
		saved, err := tx.UpsertProfile(ctx, p)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.Equal(t, metabolic.Light, saved.Activity)

		p.WeightKG = 68.5
		p.Gender = metabolic.Female
		again, err := tx.UpsertProfile(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, again.ID, "second save updates in place")
		assert.Equal(t, 68.5, again.WeightKG)
		assert.Equal(t, metabolic.Female, again.Gender)
		return nil
	})
}

func testFoodLogs(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	var first, second model.FoodLog
	inTx(t, s, func(tx store.Tx) error {
		var err error
		first, err = tx.InsertFoodLog(ctx, model.FoodLog{UserID: alice.ID, Date: day,
			FoodName: "Apple", Measure: "1 medium", Qty: 2, Kcal: 190, Carbs: 50})
		require.NoError(t, err)
		second, err = tx.InsertFoodLog(ctx, model.FoodLog{UserID: alice.ID, Date: day,
			FoodName: "Egg", Measure: "1 large", Qty: 1, Kcal: 78, Protein: 6})
		require.NoError(t, err)
		_, err = tx.InsertFoodLog(ctx, model.FoodLog{UserID: alice.ID, Date: day.AddDays(1),
			FoodName: "Egg", Measure: "1 large", Qty: 1, Kcal: 78})
		return err
	})

	inTx(t, s, func(tx store.Tx) error {
		logs, err := tx.FoodLogsOn(ctx, alice.ID, day)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "Apple", logs[0].FoodName)
		assert.True(t, logs[0].Date.Equal(day))
		assert.Equal(t, 190.0, logs[0].Kcal)

		// Bob can't delete Alice's rows.
		n, err := tx.DeleteFoodLogs(ctx, bob.ID, []int64{first.ID})
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = tx.DeleteFoodLogs(ctx, alice.ID, []int64{first.ID, second.ID, 99999})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		logs, err = tx.FoodLogsOn(ctx, alice.ID, day)
		require.NoError(t, err)
		assert.Empty(t, logs)
		assert.NotNil(t, logs)

		n, err = tx.DeleteFoodLogs(ctx, alice.ID, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
		return nil
	})
}

func testExerciseLogs(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := createUser(t, s, "carol")

	inTx(t, s, func(tx store.Tx) error {
		e, err := tx.InsertExerciseLog(ctx, model.ExerciseLog{UserID: u.ID, Date: day, Type: "Jogging",
			Start: model.Clock(7, 0), End: model.Clock(7, 30), Minutes: 30, KcalBurn: 294})
		require.NoError(t, err)

		logs, err := tx.ExerciseLogsOn(ctx, u.ID, day)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "07:00", logs[0].Start.String())
		assert.Equal(t, "07:30", logs[0].End.String())
		assert.Equal(t, 294.0, logs[0].KcalBurn)

		n, err := tx.DeleteExerciseLogs(ctx, u.ID, []int64{e.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		return nil
	})
}

func testWorkouts(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := createUser(t, s, "dave")

	inTx(t, s, func(tx store.Tx) error {
		_, err := tx.InsertWorkoutLog(ctx, model.WorkoutLog{UserID: u.ID, Date: day, Category: "Strength",
			Exercise: "Squat", Sets: 5, Reps: 5, Weight: 100})
		require.NoError(t, err)
		_, err = tx.InsertWorkoutLog(ctx, model.WorkoutLog{UserID: u.ID, Date: day.AddDays(1), Category: "Cardio",
			Exercise: "Row", Sets: 1, Reps: 1, Notes: "easy"})
		require.NoError(t, err)

		ws, err := tx.WorkoutLogs(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, ws, 2)
		assert.Equal(t, "Row", ws[0].Exercise, "newest date first")
		assert.Equal(t, "easy", ws[0].Notes)

		n, err := tx.DeleteWorkoutLogs(ctx, u.ID, []int64{ws[0].ID})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		return nil
	})
}

func testWeight(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := createUser(t, s, "erin")

	inTx(t, s, func(tx store.Tx) error {
		for _, w := range []struct {
			d model.Date
			kg float64
		}{{day.AddDays(2), 69}, {day, 71}, {day.AddDays(2), 68.5}} {
			_, err := tx.InsertWeightEntry(ctx, model.WeightEntry{UserID: u.ID, Date: w.d, Weight: w.kg})
			require.NoError(t, err)
		}
		hist, err := tx.WeightHistory(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, hist, 3)
		assert.Equal(t, []float64{71, 69, 68.5}, []float64{hist[0].Weight, hist[1].Weight, hist[2].Weight})
		return nil
	})
}

func testCatalog(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	inTx(t, s, func(tx store.Tx) error {
		_, err := tx.InsertFoodItem(ctx, model.FoodItem{Name: "Banana", Measure: "1 medium", Kcal: 105, Category: "Fruit"})
		require.NoError(t, err)
		_, err = tx.InsertFoodItem(ctx, model.FoodItem{Name: "Apple", Measure: "1 medium", Kcal: 95, Category: "Fruit"})
		require.NoError(t, err)
		mine, err := tx.InsertFoodItem(ctx, model.FoodItem{Name: "Apple", Measure: "1 slice", Kcal: 10,
			Category: "Fruit", OwnerID: &alice.ID})
		require.NoError(t, err, "personal item may share a global name")
		require.NotNil(t, mine.OwnerID)
		assert.Equal(t, alice.ID, *mine.OwnerID)
		return nil
	})

	err := s.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.InsertFoodItem(ctx, model.FoodItem{Name: "Apple", Measure: "x", Category: "Fruit"})
		return err
	})
	assert.ErrorIs(t, err, model.ErrDuplicateItem, "global names are unique")

	err = s.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.InsertFoodItem(ctx, model.FoodItem{Name: "Apple", Measure: "x", Category: "Fruit", OwnerID: &alice.ID})
		return err
	})
	assert.ErrorIs(t, err, model.ErrDuplicateItem, "per-owner names are unique")

	inTx(t, s, func(tx store.Tx) error {
		anon, err := tx.FoodItems(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, anon, 2)

		forAlice, err := tx.FoodItems(ctx, &alice.ID)
		require.NoError(t, err)
		require.Len(t, forAlice, 3)
		assert.Equal(t, "Apple", forAlice[0].Name)
		assert.Equal(t, "Banana", forAlice[2].Name)

		forBob, err := tx.FoodItems(ctx, &bob.ID)
		require.NoError(t, err)
		assert.Len(t, forBob, 2)

		ids := make([]int64, 0, len(forAlice))
		for _, it := range forAlice {
			ids = append(ids, it.ID)
		}
		n, err := tx.DeleteFoodItems(ctx, alice.ID, ids)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n, "only the personal item goes")

		total, err := tx.CountFoodItems(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)

		got, err := tx.FoodItemByID(ctx, ids[0])
		require.NoError(t, err)
		assert.True(t, got.Global())
		_, err = tx.FoodItemByID(ctx, 99999)
		assert.ErrorIs(t, err, model.ErrNotFound)
		return nil
	})
}

func testRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.CreateUser(ctx, "ghost", "h", "s"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	inTx(t, s, func(tx store.Tx) error {
		_, err := tx.UserByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, model.ErrNotFound)
		return nil
	})
}

func testDeleteUserCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := createUser(t, s, "frank")

	inTx(t, s, func(tx store.Tx) error {
		_, err := tx.UpsertProfile(ctx, model.DefaultProfile(u.ID))
		require.NoError(t, err)
		_, err = tx.InsertFoodLog(ctx, model.FoodLog{UserID: u.ID, Date: day, FoodName: "Egg", Measure: "1", Qty: 1})
		require.NoError(t, err)
		_, err = tx.InsertFoodItem(ctx, model.FoodItem{Name: "Shake", Measure: "1 cup", Category: "Other", OwnerID: &u.ID})
		require.NoError(t, err)
		_, err = tx.InsertWeightEntry(ctx, model.WeightEntry{UserID: u.ID, Date: day, Weight: 80})
		return err
	})

	inTx(t, s, func(tx store.Tx) error {
		n, err := tx.DeleteUser(ctx, u.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		_, err = tx.ProfileByUser(ctx, u.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		logs, err := tx.FoodLogsOn(ctx, u.ID, day)
		require.NoError(t, err)
		assert.Empty(t, logs)
		hist, err := tx.WeightHistory(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, hist)
		total, err := tx.CountFoodItems(ctx)
		require.NoError(t, err)
		assert.Zero(t, total)
		return nil
	})
}
