package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getAccount returns the signed-in user.
// GET /api/account.
func (h *Handler) getAccount(c *gin.Context) {
	u, err := h.tracker.User(c, userID(c))
	if err != nil {
		writeError(c, "getAccount", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// deleteAccount removes the user along with their profile, logs and personal
// catalog items. Outstanding tokens stop working because the user is gone.
// DELETE /api/account.
func (h *Handler) deleteAccount(c *gin.Context) {
	if err := h.tracker.DeleteAccount(c, userID(c)); err != nil {
		writeError(c, "deleteAccount", err)
		return
	}
	c.Status(http.StatusNoContent)
}
