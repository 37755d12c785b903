package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/service"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		raw     string
		want    []uint
		wantErr bool
	}{
		{"", nil, false},
		{"1", []uint{1}, false},
		{"1,2, 3", []uint{1, 2, 3}, false},
		{"4,,5,", []uint{4, 5}, false},
		{"1,abc", nil, true},
		{"-1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseIDList(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &service.ValidationError{Message: "validation failed", Fields: map[string]string{"name": "blank"}}, http.StatusBadRequest},
		{"credentials", service.ErrInvalidCredentials, http.StatusBadRequest},
		{"token", service.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", fmt.Errorf("lookup: %w", service.ErrNotFound), http.StatusNotFound},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.NewNop(), tt.err)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "disk on fire")
			}
			if tt.code == http.StatusUnauthorized {
				assert.Equal(t, "Token", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestBindErrorsUseJSONNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req struct {
			TimeMinutes *int   `json:"time_minutes" binding:"required"`
			Title       string `json:"title" binding:"required,max=5"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"too long title"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"time_minutes":"This field is required.","title":"Ensure this field has no more than 5 characters."}}`, w.Body.String())
}
