package credit

import (
	"context"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
)

type CreditService interface {
	CustomerCredit(ctx context.Context, actor identity.Actor, filter CustomerCreditFilter) (ListCustomerCreditResponse, error)
}
