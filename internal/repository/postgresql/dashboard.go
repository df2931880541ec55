package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db database.Pool
}

func NewDashboardRepository(db database.Pool) user.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountPendingDocuments counts requests still waiting on the employee or a reviewer.
func (r *dashboardRepositoryImpl) CountPendingDocuments(ctx context.Context, employeeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM document_requests
		WHERE employee_id = $1 AND state IN ('requested', 'submitted', 'rejected')
	`

	var count int64
	if err := q.QueryRow(ctx, query, employeeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending documents: %w", err)
	}
	return count, nil
}

func (r *dashboardRepositoryImpl) CountAttendanceSince(ctx context.Context, employeeID string, since time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM remote_attendances WHERE employee_id = $1 AND check_in >= $2`

	var count int64
	if err := q.QueryRow(ctx, query, employeeID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

func (r *dashboardRepositoryImpl) CountOpenInvoices(ctx context.Context, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM invoices
		WHERE company_id = $1
		  AND move_type = 'out_invoice'
		  AND state = 'posted'
		  AND payment_state IN ('not_paid', 'partial')
	`

	var count int64
	if err := q.QueryRow(ctx, query, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open invoices: %w", err)
	}
	return count, nil
}
