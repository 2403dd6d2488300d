package httpapi

import (
	"net/http"
	"strings"

	"hrsys.org/internal/auth"
)

// publicPaths bypass bearer authentication entirely.
var publicPaths = map[string]bool{
	"/":           true,
	"/healthz":    true,
	"/readyz":     true,
	"/metrics":    true,
	"/v1/info":    true,
	"/auth/token": true,
}

// withAuth resolves the bearer token on every non-public request, re-fetching
// the identity so role and disabled changes apply immediately, and stores the
// user on the context for the handlers.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if a.auth == nil {
			writeError(w, r, http.StatusServiceUnavailable, "authentication is not configured")
			return
		}
		token, ok := extractBearerToken(r)
		if !ok {
			unauthorized(w, r, "missing bearer token")
			return
		}
		user, err := a.auth.Resolve(r.Context(), token)
		if err != nil {
			a.authError(w, r, err)
			return
		}
		if err := a.auth.RequireActive(user); err != nil {
			a.authError(w, r, err)
			return
		}
		ctx := auth.ContextWithUser(r.Context(), user)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole enforces the exact role on the already-resolved user. Returns
// false after writing the error response.
func (a *API) requireRole(w http.ResponseWriter, r *http.Request, role string) bool {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthorized(w, r, "missing bearer token")
		return false
	}
	if err := a.auth.RequireRole(role)(user); err != nil {
		a.authError(w, r, err)
		return false
	}
	return true
}

func extractBearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, r, http.StatusUnauthorized, msg)
}
