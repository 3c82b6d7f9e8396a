package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		shutdown, err := Init(context.Background(), &config.OtelConfig{Enabled: false}, "test")

		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	})

	t.Run("Enabled", func(t *testing.T) {
		cfg := &config.OtelConfig{
			Enabled:          true,
			ServiceName:      "product-catalog-service",
			ExporterEndpoint: "localhost:4318",
			SamplerRatio:     0.5,
		}

		shutdown, err := Init(context.Background(), cfg, "test")
		require.NoError(t, err)
		require.NotNil(t, shutdown)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = shutdown(ctx)
	})
}

func TestExporterOptions(t *testing.T) {
	assert.Len(t, exporterOptions("http://otel:4318/v1/traces"), 1)
	assert.Len(t, exporterOptions("otel:4318"), 2)
}

func TestMiddleware(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	})

	rr := httptest.NewRecorder()
	Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusAccepted, rr.Code)
}
