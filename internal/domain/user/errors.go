package user

import "github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"

var (
	ErrUserNotFound           = apperror.New(apperror.KindNotFound, "user not found")
	ErrReviewerAccessRequired = apperror.New(apperror.KindForbidden, "manager access required")
	ErrModuleAccessRequired   = apperror.New(apperror.KindForbidden, "module access required")
	ErrEmployeeRequired       = apperror.New(apperror.KindNotFound, "no employee record found for this user")
)
