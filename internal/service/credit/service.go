package credit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/credit"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/shopspring/decimal"
)

type CreditServiceImpl struct {
	credit.CreditRepository
	now func() time.Time
}

func NewCreditService(creditRepo credit.CreditRepository) credit.CreditService {
	return &CreditServiceImpl{
		CreditRepository: creditRepo,
		now:              time.Now,
	}
}

// CustomerCredit implements credit.CreditService.
func (c *CreditServiceImpl) CustomerCredit(ctx context.Context, actor identity.Actor, filter credit.CustomerCreditFilter) (credit.ListCustomerCreditResponse, error) {
	if !actor.HasModule(identity.ModuleSales) {
		return credit.ListCustomerCreditResponse{}, credit.ErrSalesAccessRequired
	}
	if err := filter.Validate(); err != nil {
		return credit.ListCustomerCreditResponse{}, err
	}

	customers, total, err := c.CreditRepository.ListCustomers(ctx, actor.CompanyID, filter)
	if err != nil {
		return credit.ListCustomerCreditResponse{}, fmt.Errorf("failed to list customers: %w", err)
	}

	records := make([]credit.CustomerCreditResponse, 0, len(customers))
	if len(customers) > 0 {
		partnerIDs := make([]string, 0, len(customers))
		for _, cust := range customers {
			partnerIDs = append(partnerIDs, cust.ID)
		}

		invoices, err := c.CreditRepository.ListOpenInvoices(ctx, actor.CompanyID, partnerIDs)
		if err != nil {
			return credit.ListCustomerCreditResponse{}, fmt.Errorf("failed to list open invoices: %w", err)
		}

		byPartner := make(map[string][]credit.OpenInvoice, len(customers))
		for _, inv := range invoices {
			byPartner[inv.PartnerID] = append(byPartner[inv.PartnerID], inv)
		}

		ref := c.now()
		for _, cust := range customers {
			aging := credit.CalculateAging(byPartner[cust.ID], ref)
			records = append(records, credit.CustomerCreditResponse{
				ID:              cust.ID,
				Name:            cust.Name,
				CreditLimit:     toFloat(cust.CreditLimit),
				TotalReceivable: toFloat(cust.Receivable),
				TotalPayable:    toFloat(cust.Payable),
				Aging0To30:      toFloat(aging.Days0To30),
				Aging31To60:     toFloat(aging.Days31To60),
				Aging61To90:     toFloat(aging.Days61To90),
				Aging90Plus:     toFloat(aging.Days90Plus),
				TotalOpen:       toFloat(aging.Total()),
			})
		}
	}

	return credit.ListCustomerCreditResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Customers:  records,
	}, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
