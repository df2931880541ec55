package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/auth"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// AuthRequired rejects requests without a valid access token and stores the caller as an identity.Actor.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			actor, err := identity.FromClaims(claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithActor(ctx context.Context, actor identity.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller stored by AuthRequired.
func ActorFromContext(ctx context.Context) (identity.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(identity.Actor)
	return actor, ok
}
