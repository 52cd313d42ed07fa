package handler

import (
	"net/http"

	"skidqi-be/internal/logger"
	"skidqi-be/internal/navigator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader identifies the navigator session of a client.
const SessionHeader = "X-Session-ID"

const sessionKey = "sessionID"

// sessionMiddleware assigns a session id when the client did not send one
// and echoes it back so the client can keep using it.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		c.Header(SessionHeader, sessionID)
		c.Set(sessionKey, sessionID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}

type selectRequest struct {
	CategoryID string `json:"category_id" binding:"required"`
}

type backRequest struct {
	ToIndex *int `json:"to_index" binding:"required,min=0"`
}

func (h *Handlers) NavView(c *gin.Context) {
	n, err := h.Navigators.Get(c.GetString(sessionKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n.View())
}

func (h *Handlers) NavInit(c *gin.Context) {
	n := h.Navigators.GetOrCreate(c.GetString(sessionKey))
	view, err := n.Init(c.Request.Context())
	respondView(c, view, err)
}

// NavSelect drills into a displayed category, or reports it chosen when it is a leaf.
func (h *Handlers) NavSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.Navigators.Get(c.GetString(sessionKey))
	if err != nil {
		writeError(c, err)
		return
	}

	outcome, err := n.SelectByID(c.Request.Context(), req.CategoryID)
	respondOutcome(c, outcome, err)
}

func (h *Handlers) NavBack(c *gin.Context) {
	var req backRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.Navigators.Get(c.GetString(sessionKey))
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := n.GoBack(c.Request.Context(), *req.ToIndex)
	respondView(c, view, err)
}

func (h *Handlers) NavReset(c *gin.Context) {
	n := h.Navigators.GetOrCreate(c.GetString(sessionKey))
	view, err := n.Reset(c.Request.Context())
	respondView(c, view, err)
}

func (h *Handlers) NavRetry(c *gin.Context) {
	n, err := h.Navigators.Get(c.GetString(sessionKey))
	if err != nil {
		writeError(c, err)
		return
	}

	outcome, err := n.Retry(c.Request.Context())
	respondOutcome(c, outcome, err)
}

// NavEnd drops the session and cancels its in-flight fetch.
func (h *Handlers) NavEnd(c *gin.Context) {
	if !h.Navigators.Remove(c.GetString(sessionKey)) {
		writeError(c, navigator.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondView sends the view alongside any error so the client can render
// the retry state.
func respondView(c *gin.Context, view navigator.View, err error) {
	if err != nil {
		respondNavError(c, view, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func respondOutcome(c *gin.Context, outcome navigator.Outcome, err error) {
	if err != nil {
		respondNavError(c, outcome.View, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func respondNavError(c *gin.Context, view navigator.View, err error) {
	code, msg := errorResponse(c, err)
	if code == http.StatusInternalServerError && view.Err != "" {
		view.Err = msg
	}
	c.JSON(code, gin.H{"error": msg, "view": view})
}
