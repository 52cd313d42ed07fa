package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"skidqi-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func guardedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/me", RequireAuth(), ok)
	r.POST("/admin/import", RequireRole(utils.RoleAdmin), ok)
	return r
}

func TestRequireAuth(t *testing.T) {
	r := guardedRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(utils.SetUserContext(req.Context(), "u1", "", "USER"))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireRole(t *testing.T) {
	r := guardedRouter()

	tests := []struct {
		name string
		role string
		anon bool
		want int
	}{
		{name: "anonymous", anon: true, want: http.StatusUnauthorized},
		{name: "regular user", role: "USER", want: http.StatusForbidden},
		{name: "admin", role: utils.RoleAdmin, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/import", nil)
			if !tt.anon {
				req = req.WithContext(utils.SetUserContext(req.Context(), "u1", "", tt.role))
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
