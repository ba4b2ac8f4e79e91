package main

import (
	"time"

	"lg/weight-tracker-api/internal/metabolic"
	"lg/weight-tracker-api/internal/model"
)

// Request and response shapes of the HTTP API. Domain structs live in
// internal/model; these only describe what crosses the wire.

// credentialsRequest is the body of POST /api/register and POST /api/login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse is returned by register and login.
type tokenResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      model.UserSummary `json:"user"`
}

// idsRequest is the body of every bulk DELETE.
type idsRequest struct {
	IDs []int64 `json:"ids"`
}

// profileRequest is the body of PUT /api/profile. Gender and activity are
// matched case-insensitively.
type profileRequest struct {
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	HeightCM int     `json:"height_cm"`
	WeightKG float64 `json:"weight_kg"`
	Activity string  `json:"activity"`
	Deficit  int     `json:"deficit"`
}

// createFoodLogRequest is the body of POST /api/food-log. When template_id
// names a catalog item the caller can see, the custom fields are ignored.
// Nutrition fields are per serving.
type createFoodLogRequest struct {
	Date       string  `json:"date"` // YYYY-MM-DD, defaults to today
	TemplateID *int64  `json:"template_id"`
	Qty        float64 `json:"qty"`
	Name       string  `json:"name"`
	Measure    string  `json:"measure"`
	Kcal       float64 `json:"kcal"`
	Protein    float64 `json:"protein"`
	Fat        float64 `json:"fat"`
	Carbs      float64 `json:"carbs"`
}

// createExerciseLogRequest is the body of POST /api/exercise-log. Start and
// end are HH:MM; an end not after start runs past midnight.
type createExerciseLogRequest struct {
	Date  string `json:"date"`
	Type  string `json:"type"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// createWorkoutRequest is the body of POST /api/workouts.
type createWorkoutRequest struct {
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Exercise string  `json:"exercise"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
	Notes    string  `json:"notes"`
}

// createWeightRequest is the body of POST /api/weight-log.
type createWeightRequest struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// createFoodItemRequest is the body of POST /api/food-items.
type createFoodItemRequest struct {
	Name       string  `json:"name"`
	Measure    string  `json:"measure"`
	Kcal       float64 `json:"kcal"`
	Protein    float64 `json:"protein"`
	Fat        float64 `json:"fat"`
	Carbs      float64 `json:"carbs"`
	Category   string  `json:"category"`
	MakeGlobal bool    `json:"make_global"`
}

// sessionEvent is the message pushed over /api/ws after each mutation.
type sessionEvent struct {
	Type    string        `json:"type"`
	Session model.Session `json:"session"`
}

// profileResponse is the shape of GET /api/profile. Profile is null until the
// user saves one.
type profileResponse struct {
	Profile *model.ProfileMetrics     `json:"profile"`
	Levels  []metabolic.ActivityLevel `json:"activity_levels"`
}
