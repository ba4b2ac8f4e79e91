package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// getSession returns the full view-model for one date: profile, daily
// summary, 7-day insight, weight history, workouts and the grouped catalog.
// GET /api/session?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getSession(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}

	sess, err := h.tracker.Session(c, uid, date)
	if err != nil {
		writeError(c, "getSession", err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// getDailySummary returns intake, burn, net, target and macros for one day.
// GET /api/daily?date=YYYY-MM-DD. Needs a saved profile for the target.
func (h *Handler) getDailySummary(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}

	pm, err := h.tracker.LoadProfile(c, uid)
	if err != nil {
		writeError(c, "getDailySummary", err)
		return
	}
	if pm == nil {
		apiError(c, http.StatusConflict, "complete your profile first")
		return
	}

	summary, err := h.tracker.DailySummary(c, uid, date, *pm)
	if err != nil {
		writeError(c, "getDailySummary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getInsights returns the trailing window ending at date (inclusive), oldest
// day first, plus the weight trend over the whole history.
// GET /api/insights?date=YYYY-MM-DD&days=7.
func (h *Handler) getInsights(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			apiError(c, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	pm, err := h.tracker.LoadProfile(c, uid)
	if err != nil {
		writeError(c, "getInsights", err)
		return
	}
	if pm == nil {
		apiError(c, http.StatusConflict, "complete your profile first")
		return
	}

	in, err := h.tracker.InsightWindow(c, uid, date, *pm, days)
	if err != nil {
		writeError(c, "getInsights", err)
		return
	}
	c.JSON(http.StatusOK, in)
}
