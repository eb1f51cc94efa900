package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
)

var errAuthHeader = errors.New("invalid Authorization header format")

// Auth validates the bearer token and puts the caller identity into the
// context. Requests without a header continue anonymously; a header that
// does not carry a valid token is rejected with 401.
func (h *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, types.KindUnauthorized, err.Error())
			return
		}

		id, err := h.auth.Validate(ctx, token)
		if err != nil || id.IsAnonymous() {
			h.log.Warn(ctx, "failed to authenticate caller", "error", errString(err))
			errorResponse(w, http.StatusUnauthorized, types.KindUnauthorized, "invalid or expired token")
			return
		}

		ctx = wrap.WithUserID(models.WithIdentity(ctx, id), id.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles lets through only authenticated callers holding one of
// allowedRoles. An empty list admits any authenticated caller.
func (h *Middleware) RequireRoles(next http.HandlerFunc, allowedRoles ...types.UserRole) http.Handler {
	allowed := make(map[types.UserRole]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := models.IdentityFromContext(r.Context())
		if id.IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, types.KindUnauthorized, "authorization required")
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[id.Role]; !ok {
				errorResponse(w, http.StatusForbidden, types.KindUnauthorized, "forbidden: insufficient role")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errAuthHeader
	}
	return parts[1], nil
}

func errString(err error) string {
	if err == nil {
		return "empty identity"
	}
	return err.Error()
}
