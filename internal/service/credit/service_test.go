package credit

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/credit"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreditRepo struct {
	customers    []credit.Customer
	invoices     []credit.OpenInvoice
	invoiceCalls int
}

func (f *fakeCreditRepo) ListCustomers(ctx context.Context, companyID string, filter credit.CustomerCreditFilter) ([]credit.Customer, int64, error) {
	var out []credit.Customer
	for _, c := range f.customers {
		if filter.PartnerID != nil && c.ID != *filter.PartnerID {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCreditRepo) ListOpenInvoices(ctx context.Context, companyID string, partnerIDs []string) ([]credit.OpenInvoice, error) {
	f.invoiceCalls++
	wanted := map[string]bool{}
	for _, id := range partnerIDs {
		wanted[id] = true
	}
	var out []credit.OpenInvoice
	for _, inv := range f.invoices {
		if wanted[inv.PartnerID] {
			out = append(out, inv)
		}
	}
	return out, nil
}

func due(t time.Time) *time.Time { return &t }

func TestCustomerCredit(t *testing.T) {
	ref := time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)
	repo := &fakeCreditRepo{
		customers: []credit.Customer{
			{ID: "p1", Name: "PT Maju", CreditLimit: decimal.NewFromInt(10000), Receivable: decimal.RequireFromString("850.50")},
			{ID: "p2", Name: "CV Jaya", CreditLimit: decimal.Zero},
		},
		invoices: []credit.OpenInvoice{
			{ID: "i1", PartnerID: "p1", DueDate: due(ref.AddDate(0, 0, -10)), Residual: decimal.NewFromInt(100)},
			{ID: "i2", PartnerID: "p1", DueDate: due(ref.AddDate(0, 0, -45)), Residual: decimal.RequireFromString("250.50")},
			{ID: "i3", PartnerID: "p1", DueDate: due(ref.AddDate(0, 0, -120)), Residual: decimal.NewFromInt(500)},
			{ID: "i4", PartnerID: "p1", Residual: decimal.NewFromInt(999)},
		},
	}
	svc := NewCreditService(repo).(*CreditServiceImpl)
	svc.now = func() time.Time { return ref }

	sales := identity.Actor{UserID: "u1", CompanyID: "co-1", Modules: []identity.Module{identity.ModuleSales}}
	resp, err := svc.CustomerCredit(context.Background(), sales, credit.CustomerCreditFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Customers, 2)

	maju := resp.Customers[0]
	assert.Equal(t, 10000.0, maju.CreditLimit)
	assert.Equal(t, 850.5, maju.TotalReceivable)
	assert.Equal(t, 100.0, maju.Aging0To30)
	assert.Equal(t, 250.5, maju.Aging31To60)
	assert.Equal(t, 0.0, maju.Aging61To90)
	assert.Equal(t, 500.0, maju.Aging90Plus)
	assert.Equal(t, 850.5, maju.TotalOpen)

	jaya := resp.Customers[1]
	assert.Equal(t, 0.0, jaya.TotalOpen)
}

func TestCustomerCreditRequiresSales(t *testing.T) {
	repo := &fakeCreditRepo{}
	svc := NewCreditService(repo)

	hrOnly := identity.Actor{UserID: "u1", CompanyID: "co-1", Modules: []identity.Module{identity.ModuleHR}}
	_, err := svc.CustomerCredit(context.Background(), hrOnly, credit.CustomerCreditFilter{})
	assert.ErrorIs(t, err, credit.ErrSalesAccessRequired)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestCustomerCreditEmptyPageSkipsInvoices(t *testing.T) {
	repo := &fakeCreditRepo{customers: []credit.Customer{{ID: "p1", Name: "PT Maju"}}}
	svc := NewCreditService(repo)

	missing := "p404"
	sales := identity.Actor{UserID: "u1", CompanyID: "co-1", Modules: []identity.Module{identity.ModuleSales}}
	resp, err := svc.CustomerCredit(context.Background(), sales, credit.CustomerCreditFilter{PartnerID: &missing})
	require.NoError(t, err)
	assert.Empty(t, resp.Customers)
	assert.NotNil(t, resp.Customers)
	assert.Zero(t, repo.invoiceCalls)
}
