package http

import (
	"net/http"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/response"
)

type UserHandler interface {
	Permissions(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// Permissions implements UserHandler.
func (h *userHandlerImpl) Permissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.userService.Permissions(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Dashboard implements UserHandler.
func (h *userHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.userService.Dashboard(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
