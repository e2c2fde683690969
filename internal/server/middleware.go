package server

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"melidash/internal/domain"
	"melidash/internal/domain/service/admin"
	"melidash/internal/domain/value"
	"melidash/pkg/contextx"
	"melidash/pkg/errcodes"
	"melidash/pkg/httpx/reply"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (admin.Claims, error)
}

// authenticate puts the caller's id and role into the request context.
func authenticate(a authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				reply.Error(ctx, w, domain.NewError(errcodes.Unauthorized, "missing bearer token"))
				return
			}

			claims, err := a.Authenticate(ctx, token)
			if err != nil {
				reply.Error(ctx, w, err)
				return
			}

			ctx = contextx.WithUserID(ctx, contextx.UserID(claims.UserID()))
			ctx = contextx.WithUserRole(ctx, contextx.UserRole(claims.Role))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRole must run after authenticate.
func requireRole(roles ...value.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			role, err := contextx.UserRoleFromContext(ctx)
			if err != nil || !slices.Contains(roles, value.Role(role)) {
				reply.Error(ctx, w, domain.NewError(errcodes.Forbidden, "insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func currentUserID(ctx context.Context) (string, error) {
	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return "", domain.WrapError(err, errcodes.Unauthorized, "unauthenticated")
	}

	return userID.String(), nil
}
