package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/weight-tracker-api/internal/model"
)

// getWeightLog returns the user's weigh-ins, oldest first.
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both bounds are
// optional and inclusive. Returns an empty array (not null) if nothing matches.
func (h *Handler) getWeightLog(c *gin.Context) {
	uid := userID(c)

	start, ok := queryDate(c, "start")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end")
	if !ok {
		return
	}
	if start != nil && end != nil && start.After(end.Time) {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	history, err := h.tracker.WeightHistory(c, uid)
	if err != nil {
		writeError(c, "getWeightLog", err)
		return
	}

	// Ensure empty array (not null) in JSON
	entries := []model.WeightEntry{}
	for _, e := range history {
		if start != nil && e.Date.Before(start.Time) {
			continue
		}
		if end != nil && e.Date.After(end.Time) {
			continue
		}
		entries = append(entries, e)
	}
	c.JSON(http.StatusOK, entries)
}

// createWeightEntry records a weigh-in and makes it the profile's current
// weight, creating a default profile if the user has none.
// POST /api/weight-log. Body: { "date": "YYYY-MM-DD", "weight": 72.4 }.
func (h *Handler) createWeightEntry(c *gin.Context) {
	uid := userID(c)

	var body createWeightRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := bodyDate(c, body.Date)
	if !ok {
		return
	}

	entry, err := h.tracker.LogWeight(c, uid, date, body.Weight)
	if err != nil {
		writeError(c, "createWeightEntry", err)
		return
	}

	h.publishSession(c, uid, date)
	c.JSON(http.StatusCreated, entry)
}

// queryDate parses an optional date query param; nil when absent.
func queryDate(c *gin.Context, key string) (*model.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+key+", expected YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}
