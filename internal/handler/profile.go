package handler

import (
	"net/http"

	"skidqi-be/internal/profile"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.Profiles.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) UpdateProfile(c *gin.Context) {
	var input profile.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Profiles.Update(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) GetMyListings(c *gin.Context) {
	listings, err := h.Profiles.MyListings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *Handlers) GetNotifications(c *gin.Context) {
	inbox, err := h.Notifications.Inbox(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inbox)
}

func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	if err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
