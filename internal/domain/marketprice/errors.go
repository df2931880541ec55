package marketprice

import "github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"

var (
	ErrPurchaseAccessRequired = apperror.New(apperror.KindForbidden, "purchase module access is required")
	ErrProductNotFound        = apperror.New(apperror.KindNotFound, "product not found")
)
