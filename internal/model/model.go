// Package model defines the persisted entities, the immutable snapshots
// derived from them, and the domain errors shared by stores and services.
package model

import (
	"time"

	"lg/weight-tracker-api/internal/metabolic"
)

/* ─── Persisted entities ─────────────────────────────────────────────── */

// User maps to the users table. Username is stored lowercased; the hash and
// salt are hidden from JSON responses.
type User struct {
	ID           int64     `json:"id"         db:"id"`
	Username     string    `json:"username"   db:"username"`
	PasswordHash string    `json:"-"          db:"password_hash"`
	PasswordSalt string    `json:"-"          db:"password_salt"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Profile maps to the profiles table, one row per user.
type Profile struct {
	ID       int64                   `json:"id"        db:"id"`
	UserID   int64                   `json:"user_id"   db:"user_id"`
	Age      int                     `json:"age"       db:"age"`
	Gender   metabolic.Gender        `json:"gender"    db:"gender"`
	HeightCM int                     `json:"height_cm" db:"height_cm"`
	WeightKG float64                 `json:"weight_kg" db:"weight_kg"`
	Activity metabolic.ActivityLevel `json:"activity"  db:"activity"`
	Deficit  int                     `json:"deficit"   db:"deficit"`
}

// DefaultProfile is used when a profile is created implicitly, e.g. by the
// first weight entry of a user who never saved one.
func DefaultProfile(userID int64) Profile {
	return Profile{
		UserID:   userID,
		Age:      30,
		Gender:   metabolic.Male,
		HeightCM: 170,
		WeightKG: 70,
		Activity: metabolic.Sedentary,
		Deficit:  500,
	}
}

// FoodItem is a catalog template. A nil OwnerID marks a global item shared by
// every user.
type FoodItem struct {
	ID       int64   `json:"id"       db:"id"`
	Name     string  `json:"name"     db:"name"`
	Measure  string  `json:"measure"  db:"measure"`
	Kcal     float64 `json:"kcal"     db:"kcal"`
	Protein  float64 `json:"protein"  db:"protein"`
	Fat      float64 `json:"fat"      db:"fat"`
	Carbs    float64 `json:"carbs"    db:"carbs"`
	Category string  `json:"category" db:"category"`
	OwnerID  *int64  `json:"owner_id" db:"owner_id"`
}

// Global reports whether the item belongs to the shared catalog.
func (f FoodItem) Global() bool { return f.OwnerID == nil }

// VisibleTo reports whether userID may log or list the item.
func (f FoodItem) VisibleTo(userID int64) bool {
	return f.OwnerID == nil || *f.OwnerID == userID
}

// FoodLog is one consumption event. Name and measure are a snapshot of the
// template at logging time and nutrition is already scaled by Qty.
type FoodLog struct {
	ID        int64     `json:"id"         db:"id"`
	UserID    int64     `json:"user_id"    db:"user_id"`
	Date      Date      `json:"date"       db:"date"`
	FoodName  string    `json:"food"       db:"food_name"`
	Measure   string    `json:"measure"    db:"measure"`
	Qty       float64   `json:"qty"        db:"qty"`
	Kcal      float64   `json:"kcal"       db:"kcal"`
	Protein   float64   `json:"protein"    db:"protein"`
	Fat       float64   `json:"fat"        db:"fat"`
	Carbs     float64   `json:"carbs"      db:"carbs"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ExerciseLog stores the interval as entered plus the derived duration and burn.
type ExerciseLog struct {
	ID        int64     `json:"id"         db:"id"`
	UserID    int64     `json:"user_id"    db:"user_id"`
	Date      Date      `json:"date"       db:"date"`
	Type      string    `json:"type"       db:"type"`
	Start     ClockTime `json:"start"      db:"start_time"`
	End       ClockTime `json:"end"        db:"end_time"`
	Minutes   float64   `json:"mins"       db:"mins"`
	KcalBurn  float64   `json:"kcal_burn"  db:"kcal_burn"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WorkoutLog is a strength or cardio entry.
type WorkoutLog struct {
	ID        int64     `json:"id"         db:"id"`
	UserID    int64     `json:"user_id"    db:"user_id"`
	Date      Date      `json:"date"       db:"date"`
	Category  string    `json:"category"   db:"category"`
	Exercise  string    `json:"exercise"   db:"exercise"`
	Sets      int       `json:"sets"       db:"sets"`
	Reps      int       `json:"reps"       db:"reps"`
	Weight    float64   `json:"weight"     db:"weight"`
	Notes     string    `json:"notes"      db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WeightEntry maps to weight_logs. Several entries may share a date.
type WeightEntry struct {
	ID     int64   `json:"id"      db:"id"`
	UserID int64   `json:"user_id" db:"user_id"`
	Date   Date    `json:"date"    db:"date"`
	Weight float64 `json:"weight"  db:"weight"`
}
