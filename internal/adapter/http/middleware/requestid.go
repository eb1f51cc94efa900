package middleware

import (
	"net/http"

	"github.com/google/uuid"

	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags the request context with the caller's X-Request-ID or a
// fresh UUID, and echoes it back in the response.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(wrap.WithRequestID(r.Context(), id)))
	})
}
