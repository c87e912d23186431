package server

import (
	"net/http"
	"runtime/debug"

	"madnotify/pkg/logx"
)

// Recover turns handler panics into the opaque 500 body instead of a
// dropped connection. Detail stays in the logs.
func Recover(next http.Handler, log logx.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic in request handler",
					logx.Any("panic", rec),
					logx.String("path", r.URL.Path),
					logx.String("stack", string(debug.Stack())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
