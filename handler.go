package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/realtime"
	"lg/weight-tracker-api/internal/service"
)

// Handler holds shared dependencies (tracker, session feed, token settings)
// for all route handlers.
type Handler struct {
	tracker   *service.Tracker
	hub       *realtime.Hub
	jwtSecret []byte
	tokenTTL  time.Duration
	upgrader  websocket.Upgrader
}

// newHandler wires the handlers. allowedOrigins are the browser origins,
// besides the server's own host, that may open the websocket feed.
func newHandler(tracker *service.Tracker, hub *realtime.Hub, jwtSecret string, tokenTTL time.Duration, allowedOrigins []string) *Handler {
	return &Handler{
		tracker:   tracker,
		hub:       hub,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		upgrader:  websocket.Upgrader{CheckOrigin: checkOrigin(allowedOrigins)},
	}
}

/* ─── Response helpers ───────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// writeError maps a service error onto an HTTP status. Anything unexpected is
// logged and reported as a generic 500 so storage details don't leak.
func writeError(c *gin.Context, fn string, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		apiError(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, model.ErrDuplicateUsername), errors.Is(err, model.ErrDuplicateItem):
		apiError(c, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrUserNotFound), errors.Is(err, model.ErrNotFound):
		apiError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrForbidden):
		apiError(c, http.StatusForbidden, err.Error())
	default:
		log.Printf("[%s] %v", fn, err)
		apiError(c, http.StatusInternalServerError, "internal error")
	}
}

// parseDate reads ?date=, defaulting to today. On a bad value it writes the
// 400 itself and returns ok=false.
func parseDate(c *gin.Context) (model.Date, bool) {
	raw := c.DefaultQuery("date", model.Today().String())
	d, err := model.ParseDate(raw)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return model.Date{}, false
	}
	return d, true
}

// bodyDate parses an optional YYYY-MM-DD body field, defaulting to today.
func bodyDate(c *gin.Context, raw string) (model.Date, bool) {
	if raw == "" {
		return model.Today(), true
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return model.Date{}, false
	}
	return d, true
}

// bindIDs reads the {"ids": [...]} body shared by all bulk deletes.
func bindIDs(c *gin.Context) ([]int64, bool) {
	var body idsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return body.IDs, true
}

// userID returns the id authMiddleware stored on the context.
func userID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

// publishSession pushes the rebuilt view-model for date to the user's open
// websocket connections. Failures are logged; the HTTP response has already
// been decided by then.
func (h *Handler) publishSession(c *gin.Context, uid int64, date model.Date) {
	if h.hub == nil || h.hub.Count(uid) == 0 {
		return
	}
	sess, err := h.tracker.Session(c, uid, date)
	if err != nil {
		log.Printf("[publishSession] user id=%d: %v", uid, err)
		return
	}
	h.hub.Publish(uid, sessionEvent{Type: "session", Session: sess})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/register", h.register)
	router.POST("/api/login", h.login)
	router.GET("/api/exercise-types", h.getExerciseTypes)
	router.GET("/api/food-items", h.optionalAuth(), h.getFoodItems)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/session", h.getSession)
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)
	api.GET("/daily", h.getDailySummary)
	api.GET("/insights", h.getInsights)
	api.POST("/food-log", h.createFoodLog)
	api.DELETE("/food-log", h.deleteFoodLogs)
	api.POST("/exercise-log", h.createExerciseLog)
	api.DELETE("/exercise-log", h.deleteExerciseLogs)
	api.GET("/workouts", h.getWorkouts)
	api.POST("/workouts", h.createWorkout)
	api.DELETE("/workouts", h.deleteWorkouts)
	api.GET("/weight-log", h.getWeightLog)
	api.POST("/weight-log", h.createWeightEntry)
	api.POST("/food-items", h.createFoodItem)
	api.DELETE("/food-items", h.deleteFoodItems)
	api.GET("/food-items/groups", h.getFoodGroups)
	api.GET("/account", h.getAccount)
	api.DELETE("/account", h.deleteAccount)
	api.GET("/ws", h.serveSessionFeed)
}
