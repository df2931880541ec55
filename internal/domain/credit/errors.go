package credit

import "github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"

var (
	ErrSalesAccessRequired = apperror.New(apperror.KindForbidden, "sales module access is required")
)
