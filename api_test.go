package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/realtime"
	"lg/weight-tracker-api/internal/service"
	"lg/weight-tracker-api/internal/store"
)

const (
	testSecret = "test-secret"
	testOrigin = "https://app.example.com"
)

// setupAPITest builds the full router over a fresh SQLite database in a temp
// dir. No external services needed.
func setupAPITest(t *testing.T, opts ...service.Option) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := newHandler(service.New(db, opts...), realtime.NewHub(), testSecret, time.Hour, []string{testOrigin})
	router := gin.New()
	h.registerRoutes(router)
	return router, h
}

// doRequest sends a request with an optional JSON body and bearer token.
func doRequest(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response body into v or fails the test.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// signUp registers username and returns its token.
func signUp(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doRequest(router, "POST", "/api/register",
		fmt.Sprintf(`{"username":%q,"password":"secret123"}`, username), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, w.Code, w.Body.String())
	}
	var resp tokenResponse
	decode(t, w, &resp)
	return resp.Token
}

// saveProfile stores a 30 y/o 175 cm 70 kg sedentary male with a 500 kcal deficit.
func saveProfile(t *testing.T, router *gin.Engine, token string) {
	t.Helper()
	w := doRequest(router, "PUT", "/api/profile",
		`{"age":30,"gender":"Male","height_cm":175,"weight_kg":70,"activity":"Sedentary","deficit":500}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("put profile: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

/* ─── Auth ───────────────────────────────────────────────────────────── */

func TestRegisterAndLogin(t *testing.T) {
	router, _ := setupAPITest(t)
	signUp(t, router, "alice")

	w := doRequest(router, "POST", "/api/register", `{"username":"Alice","password":"secret123"}`, "")
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate username: expected 409, got %d", w.Code)
	}

	w = doRequest(router, "POST", "/api/register", `{"username":"bob","password":"123"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("short password: expected 400, got %d", w.Code)
	}

	w = doRequest(router, "POST", "/api/register", `{"username":"`+strings.Repeat("x", 51)+`","password":"secret123"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("long username: expected 400, got %d", w.Code)
	}

	w = doRequest(router, "POST", "/api/login", `{"username":"alice","password":"wrong-pass"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", w.Code)
	}
	w = doRequest(router, "POST", "/api/login", `{"username":"nobody","password":"secret123"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: expected 401, got %d", w.Code)
	}

	w = doRequest(router, "POST", "/api/login", `{"username":"ALICE","password":"secret123"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp tokenResponse
	decode(t, w, &resp)
	if resp.Token == "" || resp.User.Username != "alice" {
		t.Errorf("unexpected login response: %+v", resp)
	}

	w = doRequest(router, "GET", "/api/account", "", resp.Token)
	if w.Code != http.StatusOK {
		t.Errorf("account with login token: expected 200, got %d", w.Code)
	}
}

func TestLogin_InvalidBody(t *testing.T) {
	router, _ := setupAPITest(t)
	w := doRequest(router, "POST", "/api/login", `not json`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	router, h := setupAPITest(t)
	token := signUp(t, router, "carol")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token " + token},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/session", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}

	t.Run("expired token", func(t *testing.T) {
		expired := *h
		expired.tokenTTL = -time.Minute
		tok, _, err := expired.issueToken(1)
		if err != nil {
			t.Fatal(err)
		}
		if w := doRequest(router, "GET", "/api/session", "", tok); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("other secret", func(t *testing.T) {
		other := *h
		other.jwtSecret = []byte("another-secret")
		tok, _, err := other.issueToken(1)
		if err != nil {
			t.Fatal(err)
		}
		if w := doRequest(router, "GET", "/api/session", "", tok); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("deleted account", func(t *testing.T) {
		tok := signUp(t, router, "dave")
		if w := doRequest(router, "DELETE", "/api/account", "", tok); w.Code != http.StatusNoContent {
			t.Fatalf("delete account: expected 204, got %d", w.Code)
		}
		if w := doRequest(router, "GET", "/api/session", "", tok); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 after delete, got %d", w.Code)
		}
	})
}

/* ─── Profile & summaries ────────────────────────────────────────────── */

func TestProfile(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "erin")

	w := doRequest(router, "GET", "/api/profile", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var empty profileResponse
	decode(t, w, &empty)
	if empty.Profile != nil {
		t.Errorf("expected null profile before first save, got %+v", empty.Profile)
	}
	if len(empty.Levels) != 4 {
		t.Errorf("expected 4 activity levels, got %v", empty.Levels)
	}

	w = doRequest(router, "PUT", "/api/profile",
		`{"age":30,"gender":"Other","height_cm":175,"weight_kg":70,"activity":"Sedentary","deficit":500}`, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown gender: expected 400, got %d", w.Code)
	}

	saveProfile(t, router, token)
	w = doRequest(router, "GET", "/api/profile", "", token)
	var got profileResponse
	decode(t, w, &got)
	if got.Profile == nil {
		t.Fatal("expected profile after save")
	}
	if !approx(got.Profile.BMR, 1648.75) {
		t.Errorf("BMR: expected 1648.75, got %v", got.Profile.BMR)
	}
	if !approx(got.Profile.TDEE, 1978.5) {
		t.Errorf("TDEE: expected 1978.5, got %v", got.Profile.TDEE)
	}
}

func TestDailySummary(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "frank")

	w := doRequest(router, "GET", "/api/daily?date=2026-03-14", "", token)
	if w.Code != http.StatusConflict {
		t.Errorf("no profile: expected 409, got %d", w.Code)
	}

	saveProfile(t, router, token)

	w = doRequest(router, "POST", "/api/food-log",
		`{"date":"2026-03-14","name":"Oats","measure":"40 g","qty":2,"kcal":150,"protein":5,"fat":3,"carbs":27}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("food log: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var food model.FoodLog
	decode(t, w, &food)
	if !approx(food.Kcal, 300) || !approx(food.Protein, 10) {
		t.Errorf("expected nutrition scaled by qty, got %+v", food)
	}

	w = doRequest(router, "POST", "/api/exercise-log",
		`{"date":"2026-03-14","type":"Walking","start":"07:00","end":"08:00"}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("exercise log: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(router, "GET", "/api/daily?date=2026-03-14", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("daily: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var s model.DailySummary
	decode(t, w, &s)
	// Walking is 3.5 MET: 3.5 * 3.5 * 70 / 200 * 60 = 257.25 kcal.
	if !approx(s.IntakeKcal, 300) || !approx(s.BurnKcal, 257.25) {
		t.Errorf("unexpected intake/burn: %v / %v", s.IntakeKcal, s.BurnKcal)
	}
	if !approx(s.NetKcal, 42.75) || !approx(s.TargetIntake, 1478.5) {
		t.Errorf("unexpected net/target: %v / %v", s.NetKcal, s.TargetIntake)
	}
	if len(s.FoodLog) != 1 || len(s.ExerciseLog) != 1 {
		t.Errorf("expected one entry of each kind, got %d food / %d exercise", len(s.FoodLog), len(s.ExerciseLog))
	}

	w = doRequest(router, "GET", "/api/daily?date=14-03-2026", "", token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date: expected 400, got %d", w.Code)
	}
}

func TestInsights(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "gina")
	saveProfile(t, router, token)

	for _, body := range []string{
		`{"date":"2026-03-10","weight":70}`,
		`{"date":"2026-03-14","weight":68.6}`,
	} {
		if w := doRequest(router, "POST", "/api/weight-log", body, token); w.Code != http.StatusCreated {
			t.Fatalf("weight log: expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}
	doRequest(router, "POST", "/api/food-log", `{"date":"2026-03-13","name":"Apple","qty":1,"kcal":95}`, token)

	w := doRequest(router, "GET", "/api/insights?date=2026-03-14", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var in model.Insight
	decode(t, w, &in)
	if len(in.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(in.Days))
	}
	if in.Days[0].Date.String() != "2026-03-08" || in.Days[6].Date.String() != "2026-03-14" {
		t.Errorf("window should run oldest first ending at date, got %s..%s", in.Days[0].Date, in.Days[6].Date)
	}
	if in.DaysLogged != 1 {
		t.Errorf("expected 1 logged day, got %d", in.DaysLogged)
	}
	if !approx(in.WeightChange, -1.4) {
		t.Errorf("expected -1.4 kg change, got %v", in.WeightChange)
	}

	w = doRequest(router, "GET", "/api/insights?date=2026-03-14&days=3", "", token)
	decode(t, w, &in)
	if len(in.Days) != 3 {
		t.Errorf("expected 3 days, got %d", len(in.Days))
	}

	for _, q := range []string{"days=0", "days=abc", "days=1000"} {
		if w := doRequest(router, "GET", "/api/insights?"+q, "", token); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

/* ─── Logs ───────────────────────────────────────────────────────────── */

func TestFoodLog_Validation(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "hank")

	cases := []struct {
		name string
		body string
	}{
		{"zero qty", `{"name":"Rice","qty":0,"kcal":200}`},
		{"missing name", `{"qty":1,"kcal":200}`},
		{"negative kcal", `{"name":"Rice","qty":1,"kcal":-5}`},
		{"bad date", `{"date":"March 3","name":"Rice","qty":1}`},
		{"long name", `{"name":"` + strings.Repeat("r", 121) + `","qty":1}`},
		{"scaled past float range", `{"date":"2026-03-14","name":"Big","kcal":1e308,"qty":10}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := doRequest(router, "POST", "/api/food-log", tc.body, token); w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}

	// Nothing rejected above may end up in the day's summary.
	saveProfile(t, router, token)
	w := doRequest(router, "GET", "/api/daily?date=2026-03-14", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("daily: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var day model.DailySummary
	decode(t, w, &day)
	if len(day.FoodLog) != 0 {
		t.Errorf("expected empty food log, got %+v", day.FoodLog)
	}
}

func TestExerciseLog_RequiresProfileAndTimes(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "ivy")

	w := doRequest(router, "POST", "/api/exercise-log", `{"type":"Running","start":"07:00","end":"07:30"}`, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("no profile: expected 400, got %d", w.Code)
	}

	saveProfile(t, router, token)
	w = doRequest(router, "POST", "/api/exercise-log", `{"type":"Running","start":"7am","end":"07:30"}`, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad start: expected 400, got %d", w.Code)
	}
	w = doRequest(router, "POST", "/api/exercise-log", `{"type":"Running","start":"07:00:30","end":"07:30"}`, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("start with seconds: expected 400, got %d", w.Code)
	}

	w = doRequest(router, "POST", "/api/exercise-log", `{"type":"Walking","start":"23:30","end":"00:30"}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var e model.ExerciseLog
	decode(t, w, &e)
	if !approx(e.Minutes, 60) {
		t.Errorf("expected 60 minutes across midnight, got %v", e.Minutes)
	}
}

func TestBulkDelete_IgnoresForeignIDs(t *testing.T) {
	router, _ := setupAPITest(t)
	alice := signUp(t, router, "alice")
	bob := signUp(t, router, "bob")

	w := doRequest(router, "POST", "/api/food-log", `{"date":"2026-03-14","name":"Toast","qty":1,"kcal":80}`, bob)
	var bobs model.FoodLog
	decode(t, w, &bobs)

	w = doRequest(router, "DELETE", "/api/food-log", fmt.Sprintf(`{"ids":[%d, 9999]}`, bobs.ID), alice)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	saveProfile(t, router, bob)
	w = doRequest(router, "GET", "/api/daily?date=2026-03-14", "", bob)
	var s model.DailySummary
	decode(t, w, &s)
	if len(s.FoodLog) != 1 {
		t.Errorf("bob's entry should survive alice's delete, got %d entries", len(s.FoodLog))
	}

	w = doRequest(router, "DELETE", "/api/food-log?date=2026-03-14", fmt.Sprintf(`{"ids":[%d]}`, bobs.ID), bob)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = doRequest(router, "GET", "/api/daily?date=2026-03-14", "", bob)
	decode(t, w, &s)
	if len(s.FoodLog) != 0 {
		t.Errorf("expected entry gone, got %d", len(s.FoodLog))
	}

	if w := doRequest(router, "DELETE", "/api/workouts", `{"ids":"nope"}`, bob); w.Code != http.StatusBadRequest {
		t.Errorf("bad ids body: expected 400, got %d", w.Code)
	}
}

func TestWeightLog(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "jack")

	w := doRequest(router, "GET", "/api/weight-log", "", token)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %d %s", w.Code, w.Body.String())
	}

	for _, body := range []string{
		`{"date":"2026-03-01","weight":80}`,
		`{"date":"2026-03-08","weight":79.2}`,
		`{"date":"2026-03-15","weight":78.5}`,
	} {
		doRequest(router, "POST", "/api/weight-log", body, token)
	}

	w = doRequest(router, "GET", "/api/weight-log?start=2026-03-02&end=2026-03-15", "", token)
	var entries []model.WeightEntry
	decode(t, w, &entries)
	if len(entries) != 2 || !approx(entries[0].Weight, 79.2) {
		t.Errorf("unexpected filtered history: %+v", entries)
	}

	w = doRequest(router, "GET", "/api/weight-log?start=2026-03-15&end=2026-03-01", "", token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("start after end: expected 400, got %d", w.Code)
	}

	// The latest weigh-in becomes the profile weight, with defaults for the rest.
	w = doRequest(router, "GET", "/api/profile", "", token)
	var p profileResponse
	decode(t, w, &p)
	if p.Profile == nil || !approx(p.Profile.WeightKG, 78.5) {
		t.Errorf("expected profile weight 78.5, got %+v", p.Profile)
	}

	if w := doRequest(router, "POST", "/api/weight-log", `{"weight":0}`, token); w.Code != http.StatusBadRequest {
		t.Errorf("zero weight: expected 400, got %d", w.Code)
	}
}

func TestWorkouts(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "kim")

	w := doRequest(router, "POST", "/api/workouts",
		`{"date":"2026-03-14","exercise":"Squat","sets":5,"reps":5,"weight":100}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var wk model.WorkoutLog
	decode(t, w, &wk)
	if wk.Category != service.DefaultWorkoutCategory {
		t.Errorf("expected default category, got %q", wk.Category)
	}

	w = doRequest(router, "GET", "/api/workouts", "", token)
	var list []model.WorkoutLog
	decode(t, w, &list)
	if len(list) != 1 {
		t.Errorf("expected 1 workout, got %d", len(list))
	}

	if w := doRequest(router, "POST", "/api/workouts", `{"exercise":"","sets":1}`, token); w.Code != http.StatusBadRequest {
		t.Errorf("missing exercise: expected 400, got %d", w.Code)
	}
}

/* ─── Catalog ────────────────────────────────────────────────────────── */

func TestFoodItems(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "lena")

	w := doRequest(router, "POST", "/api/food-items", `{"name":"Banana","kcal":105,"category":"Fruit","make_global":true}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("global item: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = doRequest(router, "POST", "/api/food-items", `{"name":"My Shake","kcal":250}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("personal item: expected 201, got %d", w.Code)
	}
	var shake model.FoodItem
	decode(t, w, &shake)

	w = doRequest(router, "POST", "/api/food-items", `{"name":"Banana","kcal":90,"make_global":true}`, token)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate global: expected 409, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/api/food-items", "", "")
	var anon []model.FoodItem
	decode(t, w, &anon)
	if len(anon) != 1 || anon[0].Name != "Banana" {
		t.Errorf("anonymous should see globals only, got %+v", anon)
	}

	w = doRequest(router, "GET", "/api/food-items", "", token)
	var mine []model.FoodItem
	decode(t, w, &mine)
	if len(mine) != 2 {
		t.Errorf("expected globals plus personal, got %d", len(mine))
	}

	if w := doRequest(router, "GET", "/api/food-items", "", "bogus"); w.Code != http.StatusUnauthorized {
		t.Errorf("invalid token on optional auth: expected 401, got %d", w.Code)
	}

	gone := signUp(t, router, "mona")
	if w := doRequest(router, "DELETE", "/api/account", "", gone); w.Code != http.StatusNoContent {
		t.Fatalf("delete account: expected 204, got %d", w.Code)
	}
	if w := doRequest(router, "GET", "/api/food-items", "", gone); w.Code != http.StatusUnauthorized {
		t.Errorf("deleted account on optional auth: expected 401, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/api/food-items/groups", "", token)
	var groups []model.FoodGroup
	decode(t, w, &groups)
	if len(groups) != 2 || groups[0].Category != "Fruit" || groups[1].Category != service.DefaultCategory {
		t.Errorf("unexpected groups: %+v", groups)
	}

	w = doRequest(router, "DELETE", "/api/food-items", fmt.Sprintf(`{"ids":[%d]}`, shake.ID), token)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}
	if w := doRequest(router, "POST", "/api/food-items", `{"name":"x"}`, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous add: expected 401, got %d", w.Code)
	}
}

func TestFoodItems_GlobalPolicyOff(t *testing.T) {
	router, _ := setupAPITest(t, service.WithGlobalItems(false))
	token := signUp(t, router, "mo")

	w := doRequest(router, "POST", "/api/food-items", `{"name":"Banana","kcal":105,"make_global":true}`, token)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	w = doRequest(router, "POST", "/api/food-items", `{"name":"Banana","kcal":105}`, token)
	if w.Code != http.StatusCreated {
		t.Errorf("personal item should still work, got %d", w.Code)
	}
}

func TestExerciseTypes(t *testing.T) {
	router, _ := setupAPITest(t)
	w := doRequest(router, "GET", "/api/exercise-types", "", "")
	var types []string
	decode(t, w, &types)
	found := false
	for _, ty := range types {
		if ty == "Walking" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Walking among %v", types)
	}
}

/* ─── Session & websocket ────────────────────────────────────────────── */

func TestSession(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "nina")

	w := doRequest(router, "GET", "/api/session?date=2026-03-14", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var sess model.Session
	decode(t, w, &sess)
	if sess.User.Username != "nina" || sess.Profile != nil || sess.Summary != nil {
		t.Errorf("unexpected session without profile: %+v", sess)
	}

	saveProfile(t, router, token)
	w = doRequest(router, "GET", "/api/session?date=2026-03-14", "", token)
	decode(t, w, &sess)
	if sess.Profile == nil || sess.Summary == nil || sess.Insight == nil {
		t.Fatalf("expected full session after profile save: %+v", sess)
	}
	if sess.Date.String() != "2026-03-14" || len(sess.Insight.Days) != 7 {
		t.Errorf("unexpected session date/window: %s, %d days", sess.Date, len(sess.Insight.Days))
	}
}

func TestSessionFeed(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "olga")
	saveProfile(t, router, token)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?date=2026-03-14&token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first sessionEvent
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial session: %v", err)
	}
	if first.Type != "session" || first.Session.Summary == nil || len(first.Session.Summary.FoodLog) != 0 {
		t.Fatalf("unexpected initial event: %+v", first)
	}

	w := doRequest(router, "POST", "/api/food-log", `{"date":"2026-03-14","name":"Pear","qty":1,"kcal":100}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("food log: expected 201, got %d", w.Code)
	}

	var update sessionEvent
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if update.Session.Summary == nil || !approx(update.Session.Summary.IntakeKcal, 100) {
		t.Errorf("expected pushed summary with 100 kcal, got %+v", update.Session.Summary)
	}
}

func TestSessionFeed_RequiresToken(t *testing.T) {
	router, _ := setupAPITest(t)
	w := doRequest(router, "GET", "/api/ws", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// dialFeed opens the session feed for date with an optional Origin header.
func dialFeed(t *testing.T, srvURL, token, date, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srvURL, "http") + "/api/ws?date=" + date + "&token=" + token
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	}
	return conn, resp, err
}

func TestSessionFeed_PushesRequestedDate(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "pia")

	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := dialFeed(t, srv.URL, token, "2026-03-14", "")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	var first sessionEvent
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial session: %v", err)
	}

	mutations := []struct {
		name, method, path, body string
		want                     int
	}{
		{"profile", "PUT", "/api/profile?date=2026-03-14",
			`{"age":30,"gender":"Male","height_cm":175,"weight_kg":70,"activity":"Sedentary","deficit":500}`, http.StatusOK},
		{"create item", "POST", "/api/food-items?date=2026-03-14", `{"name":"Kiwi","kcal":42}`, http.StatusCreated},
		{"delete items", "DELETE", "/api/food-items?date=2026-03-14", `{"ids":[999]}`, http.StatusNoContent},
	}
	for _, m := range mutations {
		w := doRequest(router, m.method, m.path, m.body, token)
		if w.Code != m.want {
			t.Fatalf("%s: expected %d, got %d: %s", m.name, m.want, w.Code, w.Body.String())
		}
		var ev sessionEvent
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("%s: read update: %v", m.name, err)
		}
		if got := ev.Session.Date.String(); got != "2026-03-14" {
			t.Errorf("%s: pushed session for %s, want 2026-03-14", m.name, got)
		}
	}

	if w := doRequest(router, "PUT", "/api/profile?date=someday", `{}`, token); w.Code != http.StatusBadRequest {
		t.Errorf("bad date: expected 400, got %d", w.Code)
	}
}

func TestSessionFeed_Origin(t *testing.T) {
	router, _ := setupAPITest(t)
	token := signUp(t, router, "quin")

	srv := httptest.NewServer(router)
	defer srv.Close()

	_, resp, err := dialFeed(t, srv.URL, token, "2026-03-14", "https://evil.example")
	if err == nil {
		t.Fatal("expected foreign origin to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign origin: expected 403, got %+v", resp)
	}

	for _, origin := range []string{srv.URL, testOrigin} {
		conn, _, err := dialFeed(t, srv.URL, token, "2026-03-14", origin)
		if err != nil {
			t.Errorf("origin %s: dial: %v", origin, err)
			continue
		}
		conn.Close()
	}
}
