package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	tests := []struct {
		category, title, want string
	}{
		{"cars", "Toyota Camry 2015", "/category/cars/toyota-camry-2015"},
		{"sofas", "Продам диван", "/category/sofas/prodam-divan"},
		{"free", "  Отдам   даром!  ", "/category/free/otdam-darom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, URL(tt.category, tt.title))
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusDraft.Valid())
	assert.False(t, Status("sold").Valid())
}
