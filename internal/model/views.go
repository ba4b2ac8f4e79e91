package model

import "time"

// Snapshot types below are plain values copied out of storage rows. Mutating
// the logs afterwards never changes a snapshot already handed out.

// UserSummary is the public view of a user.
type UserSummary struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

// ProfileMetrics is a profile plus its derived BMR and TDEE.
type ProfileMetrics struct {
	Profile
	BMR  float64 `json:"bmr"`
	TDEE float64 `json:"tdee"`
}

// Macros sums the macronutrients of a day's food entries, in grams.
type Macros struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// DailySummary rolls up one user's food and exercise for one date.
type DailySummary struct {
	Date         Date          `json:"date"`
	IntakeKcal   float64       `json:"intake_kcal"`
	BurnKcal     float64       `json:"burn_kcal"`
	NetKcal      float64       `json:"net_kcal"`
	TargetIntake float64       `json:"target_intake"`
	Remaining    float64       `json:"remaining"`
	Macros       Macros        `json:"macros"`
	FoodLog      []FoodLog     `json:"food_log"`
	ExerciseLog  []ExerciseLog `json:"exercise_log"`
}

// HasData reports whether anything was eaten or burned that day.
func (s DailySummary) HasData() bool {
	return s.IntakeKcal > 0 || s.BurnKcal > 0
}

// Insight aggregates a trailing window of daily summaries and the weight trend
// over the full weight history.
type Insight struct {
	WeightChange    float64        `json:"weight_change"`
	WeightChangePct float64        `json:"weight_change_pct"`
	AvgNet          float64        `json:"avg_net"`
	DaysLogged      int            `json:"days_logged"`
	Days            []DailySummary `json:"days"`
}

// FoodGroup is one category of the catalog as shown in the food picker.
type FoodGroup struct {
	Category string     `json:"category"`
	Items    []FoodItem `json:"items"`
}

// Session is the serializable view-model of one signed-in user for one
// selected date. It is rebuilt from the store after every mutation.
type Session struct {
	User          UserSummary     `json:"user"`
	Date          Date            `json:"date"`
	Profile       *ProfileMetrics `json:"profile"`
	Summary       *DailySummary   `json:"summary"`
	Insight       *Insight        `json:"insight"`
	WeightHistory []WeightEntry   `json:"weight_history"`
	Workouts      []WorkoutLog    `json:"workouts"`
	FoodGroups    []FoodGroup     `json:"food_groups"`
	ExerciseTypes []string        `json:"exercise_types"`
}
