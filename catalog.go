package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/service"
)

// getFoodItems lists the catalog ordered by name.
// GET /api/food-items. Anonymous callers see global items only; a valid
// token adds the caller's personal items.
func (h *Handler) getFoodItems(c *gin.Context) {
	items, err := h.tracker.ListItems(c, optionalUserID(c))
	if err != nil {
		writeError(c, "getFoodItems", err)
		return
	}
	if items == nil {
		items = []model.FoodItem{}
	}
	c.JSON(http.StatusOK, items)
}

// getFoodGroups returns the caller's visible catalog grouped by category.
// GET /api/food-items/groups.
func (h *Handler) getFoodGroups(c *gin.Context) {
	uid := userID(c)
	items, err := h.tracker.ListItems(c, &uid)
	if err != nil {
		writeError(c, "getFoodGroups", err)
		return
	}
	c.JSON(http.StatusOK, service.GroupItems(items))
}

// createFoodItem adds a catalog template, personal by default.
// POST /api/food-items?date=YYYY-MM-DD. Body: createFoodItemRequest.
// make_global needs the allow_global_items policy (403 otherwise); a taken
// name is 409. date picks the session pushed to open websockets.
func (h *Handler) createFoodItem(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}

	var body createFoodItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.tracker.AddItem(c, &uid, service.ItemInput{
		Name:       body.Name,
		Measure:    body.Measure,
		Kcal:       body.Kcal,
		Protein:    body.Protein,
		Fat:        body.Fat,
		Carbs:      body.Carbs,
		Category:   body.Category,
		MakeGlobal: body.MakeGlobal,
	})
	if err != nil {
		writeError(c, "createFoodItem", err)
		return
	}

	h.publishSession(c, uid, date)
	c.JSON(http.StatusCreated, item)
}

// deleteFoodItems removes the caller's own catalog items among ids. Global
// and other users' items are ignored.
// DELETE /api/food-items?date=YYYY-MM-DD. Body: { "ids": [...] }. Always 204.
func (h *Handler) deleteFoodItems(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	if err := h.tracker.DeleteItems(c, uid, ids); err != nil {
		writeError(c, "deleteFoodItems", err)
		return
	}

	h.publishSession(c, uid, date)
	c.Status(http.StatusNoContent)
}
