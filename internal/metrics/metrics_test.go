package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCatalogOperation(t *testing.T) {
	before := testutil.ToFloat64(catalogOperationsTotal.WithLabelValues("create", ResultError))

	RecordCatalogOperation("create", errors.New("boom"))
	RecordCatalogOperation("create", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(catalogOperationsTotal.WithLabelValues("create", ResultError)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(catalogOperationsTotal.WithLabelValues("create", ResultSuccess)), 1.0)
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler := Middleware(mux)

	for _, id := range []string{"a", "b", "c"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("404", http.MethodGet, "GET /products/{id}")))
	assert.Zero(t, testutil.ToFloat64(httpRequestsInFlight))
}

func TestHandlerExposesCatalogCounter(t *testing.T) {
	RecordCatalogOperation("list", nil)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `catalog_operations_total{operation="list",result="success"}`))
}
