package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/config"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHealthHandler(t *testing.T) {
	cfg := &config.Config{
		Env:     "test",
		Storage: config.Storage{Driver: config.StorageDriverMemory},
		Otel:    config.OtelConfig{ServiceName: "product-catalog-service"},
	}

	h, err := health.NewHealthHandler(cfg)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Status    string `json:"status"`
		Component struct {
			Name string `json:"name"`
		} `json:"component"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, "product-catalog-service", body.Component.Name)
}
