package testutils

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/api/middleware"
)

// CreateTestRequest builds a request carrying the path values a ServeMux
// would have set and a discarding request logger.
func CreateTestRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}

// DecodeData unmarshals the data member of a success envelope into dest.
func DecodeData(body []byte, dest any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(body, &envelope); err != nil {
		return err
	}

	return json.Unmarshal(envelope.Data, dest)
}
