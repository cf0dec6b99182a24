package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nfalco/parley/pkg/pagination"
)

func TestFromRequest_Clamping(t *testing.T) {
	testCases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", pagination.DefaultPage, pagination.DefaultLimit},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"zero_page", "?page=0", pagination.DefaultPage, pagination.DefaultLimit},
		{"negative_page", "?page=-2", pagination.DefaultPage, pagination.DefaultLimit},
		{"excessive_limit", "?limit=5000", pagination.DefaultPage, pagination.DefaultLimit},
		{"garbage", "?page=abc&limit=xyz", pagination.DefaultPage, pagination.DefaultLimit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/items"+tc.query, nil)

			params := pagination.FromRequest(request)

			assert.Equal(t, tc.wantPage, params.Page)
			assert.Equal(t, tc.wantLimit, params.Limit)
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
}

func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 20, 45)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 45, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	// Zero limit must not divide by zero
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 45).TotalPages)
}
