package middleware

import (
	"net/http"
	"strings"

	"github.com/celebrelabs/celebre-backend/api/responses"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

// Auth verifies the bearer ID token and seeds the request context with the
// caller identity. No business logic runs for unauthenticated requests.
func Auth(verifier identity.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			verified, err := verifier.VerifyIDToken(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if verified == nil || verified.UID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"))
				return
			}

			ctx := WithToken(r.Context(), verified)
			if logg != nil {
				ctx = logg.WithUserID(ctx, verified.UID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
