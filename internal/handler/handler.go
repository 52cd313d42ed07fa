package handler

import (
	"errors"
	"net/http"

	"skidqi-be/internal/category"
	"skidqi-be/internal/importer"
	"skidqi-be/internal/listing"
	"skidqi-be/internal/logger"
	"skidqi-be/internal/metrics"
	"skidqi-be/internal/middleware"
	"skidqi-be/internal/navigator"
	"skidqi-be/internal/notification"
	"skidqi-be/internal/profile"
	"skidqi-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers holds the services behind the JSON API.
type Handlers struct {
	Categories     category.Service
	Navigators     *navigator.Store
	Listings       listing.Service
	Importer       *importer.Importer
	Profiles       profile.Service
	Notifications  notification.Service
	GraphQL        http.Handler
	Metrics        *metrics.Registry
	ImportMaxBytes int64
}

// SetupRouter registers every route. Authentication, request ids and
// access logging are applied by the net/http chain that wraps the engine.
func SetupRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.Health)
	router.GET("/metrics", h.MetricsSnapshot)

	categories := router.Group("/categories")
	{
		categories.GET("", h.GetRoots)
		categories.GET("/tree", h.GetTree)
		categories.GET("/slug/:slug", h.GetCategoryBySlug)
		categories.GET("/:id/children", h.GetChildren)
		categories.GET("/:id/leaf", h.GetIsLeaf)
		categories.GET("/:id/path", h.GetPath)
	}

	nav := router.Group("/nav")
	nav.Use(sessionMiddleware())
	{
		nav.GET("", h.NavView)
		nav.POST("/init", h.NavInit)
		nav.POST("/select", h.NavSelect)
		nav.POST("/back", h.NavBack)
		nav.POST("/reset", h.NavReset)
		nav.POST("/retry", h.NavRetry)
		nav.DELETE("", h.NavEnd)
	}

	if h.GraphQL != nil {
		router.POST("/query", gin.WrapH(h.GraphQL))
		router.GET("/query", gin.WrapH(h.GraphQL))
	}

	router.GET("/listings", h.ListListings)
	router.GET("/listings/:id", h.GetListing)
	router.GET("/listings/:id/similar", h.GetSimilarListings)
	router.GET("/category/:slug/:title", h.GetListingBySlug)

	auth := router.Group("/")
	auth.Use(middleware.RequireAuth())
	{
		auth.POST("/listings", h.CreateListing)
		auth.PATCH("/listings/:id/status", h.SetListingStatus)

		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)
		auth.GET("/profile/listings", h.GetMyListings)
		auth.GET("/profile/notifications", h.GetNotifications)
		auth.PATCH("/profile/notifications/:id/read", h.MarkNotificationRead)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.RequireRole(utils.RoleAdmin))
	{
		admin.POST("/import", h.ImportListings)
		admin.GET("/import/template", h.ImportTemplate)
	}

	return router
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MetricsSnapshot reports every registered counter plus the number of live
// navigator sessions.
func (h *Handlers) MetricsSnapshot(c *gin.Context) {
	snapshot := h.Metrics.Snapshot()
	snapshot["nav.sessions"] = uint64(h.Navigators.Len())
	c.JSON(http.StatusOK, snapshot)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, listing.ErrListingNotFound),
		errors.Is(err, navigator.ErrSessionNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		return http.StatusNotFound

	case errors.Is(err, category.ErrInvalidCategoryID),
		errors.Is(err, listing.ErrInvalidListing),
		errors.Is(err, listing.ErrTitleRequired),
		errors.Is(err, listing.ErrInvalidPrice),
		errors.Is(err, listing.ErrNotLeafCategory),
		errors.Is(err, listing.ErrInactiveCategory),
		errors.Is(err, listing.ErrInvalidStatus),
		errors.Is(err, navigator.ErrUnknownNode),
		errors.Is(err, navigator.ErrInvalidIndex),
		errors.Is(err, importer.ErrMissingHeader),
		errors.Is(err, importer.ErrEmptyFile),
		errors.Is(err, profile.ErrInvalidPhone),
		errors.Is(err, profile.ErrInvalidFullName),
		errors.Is(err, notification.ErrInvalidNotification):
		return http.StatusBadRequest

	case errors.Is(err, navigator.ErrNotInitialized),
		errors.Is(err, navigator.ErrNothingToRetry),
		errors.Is(err, navigator.ErrStale):
		return http.StatusConflict

	case errors.Is(err, listing.ErrUnauthenticated),
		errors.Is(err, importer.ErrUnauthenticated),
		errors.Is(err, profile.ErrUnauthenticated),
		errors.Is(err, notification.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, listing.ErrForbidden):
		return http.StatusForbidden

	case category.IsFetchError(err):
		return http.StatusServiceUnavailable
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	code, msg := errorResponse(c, err)
	c.JSON(code, gin.H{"error": msg})
}

// errorResponse returns the status and client message for err. Internal
// errors are logged and reported by status text only.
func errorResponse(c *gin.Context, err error) (int, string) {
	code := statusFor(err)
	if code != http.StatusInternalServerError {
		return code, err.Error()
	}
	logger.FromCtx(c.Request.Context()).Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	return code, http.StatusText(code)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
