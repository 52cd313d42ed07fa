package handler

import (
	"io"
	"net/http"
	"strings"

	"skidqi-be/internal/importer"

	"github.com/gin-gonic/gin"
)

// ImportListings accepts a CSV file either as the "file" field of a
// multipart form or as the raw request body.
func (h *Handlers) ImportListings(c *gin.Context) {
	if h.ImportMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.ImportMaxBytes)
	}

	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			writeErrorOrBadRequest(c, err)
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, err)
			return
		}
		defer f.Close()
		body = f
	}

	res, err := h.Importer.Import(c.Request.Context(), body)
	if err != nil {
		writeErrorOrBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) ImportTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="import_template.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := importer.Template(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// writeErrorOrBadRequest treats unclassified upload failures as client errors.
func writeErrorOrBadRequest(c *gin.Context, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		badRequest(c, err)
		return
	}
	writeError(c, err)
}
