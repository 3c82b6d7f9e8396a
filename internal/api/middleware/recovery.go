package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/errors"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/utils/response"
)

// Recovery turns a panic in any handler into a 500 JSON response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			LoggerFromContext(r.Context()).Error("Panic recovered",
				slog.String("error", fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())),
			)

			response.Error(w, errors.InternalError("An unexpected error occurred"))
		}()

		next.ServeHTTP(w, r)
	})
}
