package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/auth"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/response"
)

// RequireEmployee rejects users that are not linked to an employee record.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !actor.HasEmployee() {
			response.HandleError(w, user.ErrEmployeeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
