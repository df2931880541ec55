package employee

import "github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.New(apperror.KindNotFound, "employee not found")
)
