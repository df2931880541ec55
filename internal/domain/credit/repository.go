package credit

import "context"

type CreditRepository interface {
	ListCustomers(ctx context.Context, companyID string, filter CustomerCreditFilter) ([]Customer, int64, error)

	// ListOpenInvoices returns posted customer invoices that are unpaid or partially paid.
	ListOpenInvoices(ctx context.Context, companyID string, partnerIDs []string) ([]OpenInvoice, error)
}
