package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/weight-tracker-api/internal/metabolic"
	"lg/weight-tracker-api/internal/service"
)

// getProfile returns the user's profile with computed BMR and TDEE.
// GET /api/profile. "profile" is null until the first PUT.
func (h *Handler) getProfile(c *gin.Context) {
	uid := userID(c)
	pm, err := h.tracker.LoadProfile(c, uid)
	if err != nil {
		writeError(c, "getProfile", err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: pm, Levels: metabolic.Levels()})
}

// putProfile creates or replaces the user's profile.
// PUT /api/profile?date=YYYY-MM-DD. Body: profileRequest; every field is
// required. date picks the session pushed to open websockets.
func (h *Handler) putProfile(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}

	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	pm, err := h.tracker.SaveProfile(c, uid, service.ProfileInput{
		Age:      body.Age,
		Gender:   body.Gender,
		HeightCM: body.HeightCM,
		WeightKG: body.WeightKG,
		Activity: body.Activity,
		Deficit:  body.Deficit,
	})
	if err != nil {
		writeError(c, "putProfile", err)
		return
	}

	h.publishSession(c, uid, date)
	c.JSON(http.StatusOK, pm)
}
