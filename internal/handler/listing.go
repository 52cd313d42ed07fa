package handler

import (
	"net/http"
	"strconv"

	"skidqi-be/internal/listing"

	"github.com/gin-gonic/gin"
)

type listingResponse struct {
	*listing.Listing
	URL string `json:"url,omitempty"`
}

type statusRequest struct {
	Status listing.Status `json:"status" binding:"required"`
}

func (h *Handlers) withURL(c *gin.Context, l *listing.Listing) listingResponse {
	url, err := h.Listings.URL(c.Request.Context(), l)
	if err != nil {
		url = ""
	}
	return listingResponse{Listing: l, URL: url}
}

func (h *Handlers) CreateListing(c *gin.Context) {
	var input listing.CreateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	l, err := h.Listings.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.withURL(c, l))
}

func (h *Handlers) GetListing(c *gin.Context) {
	l, err := h.Listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.withURL(c, l))
}

// GetSimilarListings serves GET /listings/:id/similar?limit=.
func (h *Handlers) GetSimilarListings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	listings, err := h.Listings.Similar(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// ListListings serves GET /listings?category_id=&limit=&page=.
func (h *Handlers) ListListings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	page, _ := strconv.Atoi(c.Query("page"))

	listings, err := h.Listings.ListByCategory(c.Request.Context(), c.Query("category_id"), limit, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *Handlers) SetListingStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	l, err := h.Listings.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// GetListingBySlug resolves the public /category/<slug>/<title> path.
func (h *Handlers) GetListingBySlug(c *gin.Context) {
	l, err := h.Listings.FindBySlug(c.Request.Context(), c.Param("slug"), c.Param("title"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listingResponse{Listing: l, URL: c.Request.URL.Path})
}
