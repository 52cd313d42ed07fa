package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) GetRoots(c *gin.Context) {
	roots, err := h.Categories.LoadRoots(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roots)
}

func (h *Handlers) GetTree(c *gin.Context) {
	tree, err := h.Categories.Tree(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *Handlers) GetChildren(c *gin.Context) {
	children, err := h.Categories.LoadChildren(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, children)
}

func (h *Handlers) GetIsLeaf(c *gin.Context) {
	id := c.Param("id")
	leaf, err := h.Categories.IsLeaf(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "leaf": leaf})
}

// GetPath returns the breadcrumb from the root down to the category.
func (h *Handlers) GetPath(c *gin.Context) {
	path, err := h.Categories.GetPath(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

func (h *Handlers) GetCategoryBySlug(c *gin.Context) {
	cat, err := h.Categories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}
