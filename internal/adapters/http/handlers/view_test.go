package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotevault/quotevault/internal/adapters/http/dto"
	"github.com/quotevault/quotevault/internal/domain"
)

func TestViewHandler_GetActiveCategory(t *testing.T) {
	tests := []struct {
		name         string
		stored       string
		wantCategory string
	}{
		{
			name:         "nothing stored defaults to all",
			stored:       "",
			wantCategory: "all",
		},
		{
			name:         "stored category is returned",
			stored:       "wisdom",
			wantCategory: "wisdom",
		},
		{
			name:         "stale stored category reads as all",
			stored:       "vanished",
			wantCategory: "all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, view, store := newTestServices(t, []domain.Quote{
				testQuote("q-1", "first", "wisdom"),
			})
			store.category = tt.stored

			handler := NewViewHandler(view)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/view/category", nil)

			handler.GetActiveCategory(c)

			require.Equal(t, http.StatusOK, w.Code)

			var resp CategoryResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCategory, resp.Category)
		})
	}
}

func TestViewHandler_SelectCategory(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		wantStored     string
	}{
		{
			name:           "known category is persisted",
			body:           `{"category": "wisdom"}`,
			expectedStatus: http.StatusOK,
			wantStored:     "wisdom",
		},
		{
			name:           "category is normalized before lookup",
			body:           `{"category": "  Wisdom "}`,
			expectedStatus: http.StatusOK,
			wantStored:     "wisdom",
		},
		{
			name:           "all is always accepted",
			body:           `{"category": "all"}`,
			expectedStatus: http.StatusOK,
			wantStored:     "all",
		},
		{
			name:           "unknown category returns 404",
			body:           `{"category": "nonexistent"}`,
			expectedStatus: http.StatusNotFound,
			wantStored:     "",
		},
		{
			name:           "missing category returns 400",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			wantStored:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, view, store := newTestServices(t, []domain.Quote{
				testQuote("q-1", "first", "wisdom"),
			})

			handler := NewViewHandler(view)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/view/category", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.SelectCategory(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.wantStored, store.category)

			if tt.expectedStatus == http.StatusNotFound {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrorCodeNotFound, resp.Error.Code)
			}
		})
	}
}

func TestViewHandler_RegisterViewRoutes(t *testing.T) {
	_, view, _ := newTestServices(t, []domain.Quote{
		testQuote("q-1", "first", "wisdom"),
	})
	handler := NewViewHandler(view)

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterViewRoutes(api)

	routeMap := make(map[string]bool)
	for _, r := range router.Routes() {
		routeMap[r.Method+" "+r.Path] = true
	}

	assert.True(t, routeMap["GET /api/v1/view/category"])
	assert.True(t, routeMap["PUT /api/v1/view/category"])
}
