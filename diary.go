package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/service"
)

/* ─── Food log ───────────────────────────────────────────────────────── */

// createFoodLog records a food entry from a catalog template or custom values.
// POST /api/food-log. Body: createFoodLogRequest. Returns the stored entry,
// nutrition already scaled by qty.
func (h *Handler) createFoodLog(c *gin.Context) {
	uid := userID(c)

	var body createFoodLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := bodyDate(c, body.Date)
	if !ok {
		return
	}

	entry, err := h.tracker.LogFood(c, uid, service.FoodInput{
		Date:       date,
		TemplateID: body.TemplateID,
		Qty:        body.Qty,
		Name:       body.Name,
		Measure:    body.Measure,
		Kcal:       body.Kcal,
		Protein:    body.Protein,
		Fat:        body.Fat,
		Carbs:      body.Carbs,
	})
	if err != nil {
		writeError(c, "createFoodLog", err)
		return
	}

	h.publishSession(c, uid, date)
	c.JSON(http.StatusCreated, entry)
}

// deleteFoodLogs removes the listed entries belonging to the user.
// DELETE /api/food-log?date=YYYY-MM-DD. Body: { "ids": [1, 2] }. Always 204;
// ids owned by someone else are ignored. date only picks the pushed view.
func (h *Handler) deleteFoodLogs(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	if err := h.tracker.DeleteFoodLogs(c, uid, ids); err != nil {
		writeError(c, "deleteFoodLogs", err)
		return
	}

	h.publishSession(c, uid, date)
	c.Status(http.StatusNoContent)
}

/* ─── Exercise log ───────────────────────────────────────────────────── */

// createExerciseLog records a timed exercise session; duration and burn are
// computed server-side from the MET table and the profile weight.
// POST /api/exercise-log. Body: { "date", "type", "start": "HH:MM", "end": "HH:MM" }.
func (h *Handler) createExerciseLog(c *gin.Context) {
	uid := userID(c)

	var body createExerciseLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := bodyDate(c, body.Date)
	if !ok {
		return
	}
	start, err := model.ParseClock(body.Start)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected HH:MM")
		return
	}
	end, err := model.ParseClock(body.End)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected HH:MM")
		return
	}

	entry, err := h.tracker.LogExercise(c, uid, service.ExerciseInput{
		Date:  date,
		Type:  body.Type,
		Start: start,
		End:   end,
	})
	if err != nil {
		writeError(c, "createExerciseLog", err)
		return
	}

	h.publishSession(c, uid, date)
	c.JSON(http.StatusCreated, entry)
}

// deleteExerciseLogs removes the listed exercise entries belonging to the user.
// DELETE /api/exercise-log?date=YYYY-MM-DD. Body: { "ids": [...] }. Always 204.
func (h *Handler) deleteExerciseLogs(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	if err := h.tracker.DeleteExerciseLogs(c, uid, ids); err != nil {
		writeError(c, "deleteExerciseLogs", err)
		return
	}

	h.publishSession(c, uid, date)
	c.Status(http.StatusNoContent)
}

// getExerciseTypes lists the exercise kinds the MET table knows.
// GET /api/exercise-types (public). Unknown kinds are still accepted on POST.
func (h *Handler) getExerciseTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.ExerciseTypes())
}
