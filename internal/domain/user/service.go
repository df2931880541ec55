package user

import (
	"context"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
)

type UserService interface {
	Permissions(ctx context.Context, actor identity.Actor) (PermissionsResponse, error)
	Dashboard(ctx context.Context, actor identity.Actor) (DashboardResponse, error)
}
