package auth

import "github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"

var (
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrAccountInactive    = apperror.New(apperror.KindForbidden, "account is inactive")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthorized, "invalid or expired token")
)
