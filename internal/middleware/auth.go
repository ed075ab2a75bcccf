package middleware

import (
	"net/http"

	"sushiwave-be/internal/auth"
	"sushiwave-be/internal/httpapi"
	"sushiwave-be/internal/utils"
)

// RequireAuth rejects requests without a valid access token and injects the
// caller's identity into the request context.
func RequireAuth(maker *auth.Maker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				httpapi.WriteError(w, r, httpapi.Unauthorized("Authentication required"))
				return
			}

			claims, err := maker.VerifyAccessToken(tokenStr)
			if err != nil {
				httpapi.WriteError(w, r, httpapi.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth injects identity when a valid token is present but lets
// anonymous requests through. Guest checkout relies on this.
func OptionalAuth(maker *auth.Maker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := maker.VerifyAccessToken(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the caller's role. Must run after RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := utils.GetUserRoleFromContext(r.Context())
			if !auth.Allowed(role, roles...) {
				httpapi.WriteError(w, r, httpapi.Forbidden("Insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(auth.RoleAdmin)(next)
}
