package middleware

import (
	"context"
	"net/http"

	"github.com/celebrelabs/celebre-backend/api/responses"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

type adminAuthorizer interface {
	RequireAdmin(ctx context.Context, token *identity.Token) error
}

// RequireAdmin rejects verified callers without admin privileges. Must run
// after Auth so the token is already in the context.
func RequireAdmin(authorizer adminAuthorizer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromContext(r.Context())
			if err := authorizer.RequireAdmin(r.Context(), token); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
