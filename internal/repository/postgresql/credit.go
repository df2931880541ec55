package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/credit"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
)

type creditRepositoryImpl struct {
	db database.Pool
}

func NewCreditRepository(db database.Pool) credit.CreditRepository {
	return &creditRepositoryImpl{db: db}
}

// ListCustomers implements credit.CreditRepository. Receivable and payable are the open
// residuals of posted customer and vendor invoices.
func (r *creditRepositoryImpl) ListCustomers(ctx context.Context, companyID string, filter credit.CustomerCreditFilter) ([]credit.Customer, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "p.company_id = $1 AND p.customer_rank > 0 AND p.active = TRUE"
	args := []interface{}{companyID}
	if filter.PartnerID != nil {
		where += " AND p.id = $2"
		args = append(args, *filter.PartnerID)
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM partners p WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	query := `
		SELECT p.id, p.name, p.credit_limit,
			COALESCE(SUM(i.amount_residual) FILTER (WHERE i.move_type = 'out_invoice'), 0) AS receivable,
			COALESCE(SUM(i.amount_residual) FILTER (WHERE i.move_type = 'in_invoice'), 0) AS payable
		FROM partners p
		LEFT JOIN invoices i ON i.partner_id = p.id
			AND i.state = 'posted'
			AND i.payment_state IN ('not_paid', 'partial')
		WHERE ` + where + `
		GROUP BY p.id, p.name, p.credit_limit
		ORDER BY p.name ASC, p.id ASC` +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []credit.Customer
	for rows.Next() {
		var c credit.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.CreditLimit, &c.Receivable, &c.Payable); err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate customers: %w", err)
	}
	return customers, total, nil
}

// ListOpenInvoices implements credit.CreditRepository.
func (r *creditRepositoryImpl) ListOpenInvoices(ctx context.Context, companyID string, partnerIDs []string) ([]credit.OpenInvoice, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, partner_id, due_date, amount_residual
		FROM invoices
		WHERE company_id = $1
		  AND partner_id = ANY($2)
		  AND move_type = 'out_invoice'
		  AND state = 'posted'
		  AND payment_state IN ('not_paid', 'partial')
		ORDER BY due_date ASC NULLS LAST, id ASC
	`

	rows, err := q.Query(ctx, query, companyID, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list open invoices: %w", err)
	}
	defer rows.Close()

	var invoices []credit.OpenInvoice
	for rows.Next() {
		var inv credit.OpenInvoice
		if err := rows.Scan(&inv.ID, &inv.PartnerID, &inv.DueDate, &inv.Residual); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	return invoices, nil
}
