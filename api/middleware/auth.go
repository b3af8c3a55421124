package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/api/responses"
	pkgAuth "github.com/swiftshop/swiftshop-backend/pkg/auth"
	"github.com/swiftshop/swiftshop-backend/pkg/config"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

// userLoader fetches the account behind a token; *users.Repository
// satisfies it.
type userLoader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Auth validates a bearer token, confirms the account still exists and
// is not blocked, and seeds the request context with the identity. The
// role comes from the database rather than the token, so demotions
// take effect before the token expires.
func Auth(cfg config.JWTConfig, users userLoader, logg *logger.Logger) func(http.Handler) http.Handler {
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

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account"))
				return
			}
			if user.IsBlocked {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is blocked"))
				return
			}

			ctx := WithIdentity(r.Context(), user.ID, user.Role)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    user.ID,
					"actor_role": string(user.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
