package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/service"
)

// getWorkouts lists the user's strength workouts, newest first.
// GET /api/workouts. Returns an empty array (not null) when there are none.
func (h *Handler) getWorkouts(c *gin.Context) {
	uid := userID(c)
	workouts, err := h.tracker.Workouts(c, uid)
	if err != nil {
		writeError(c, "getWorkouts", err)
		return
	}
	if workouts == nil {
		workouts = []model.WorkoutLog{}
	}
	c.JSON(http.StatusOK, workouts)
}

// createWorkout records one exercise of a workout.
// POST /api/workouts. Body: createWorkoutRequest; category defaults to Strength.
func (h *Handler) createWorkout(c *gin.Context) {
	uid := userID(c)

	var body createWorkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := bodyDate(c, body.Date)
	if !ok {
		return
	}

	w, err := h.tracker.LogWorkout(c, uid, service.WorkoutInput{
		Date:     date,
		Category: body.Category,
		Exercise: body.Exercise,
		Sets:     body.Sets,
		Reps:     body.Reps,
		Weight:   body.Weight,
		Notes:    body.Notes,
	})
	if err != nil {
		writeError(c, "createWorkout", err)
		return
	}

	h.publishSession(c, uid, date)
	c.JSON(http.StatusCreated, w)
}

// deleteWorkouts removes the listed workouts belonging to the user.
// DELETE /api/workouts. Body: { "ids": [...] }. Always 204.
func (h *Handler) deleteWorkouts(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	if err := h.tracker.DeleteWorkouts(c, uid, ids); err != nil {
		writeError(c, "deleteWorkouts", err)
		return
	}

	h.publishSession(c, uid, date)
	c.Status(http.StatusNoContent)
}
