package user

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}

// DashboardRepository aggregates the counters shown on the mobile home screen.
type DashboardRepository interface {
	CountPendingDocuments(ctx context.Context, employeeID string) (int64, error)
	CountAttendanceSince(ctx context.Context, employeeID string, since time.Time) (int64, error)
	CountOpenInvoices(ctx context.Context, companyID string) (int64, error)
}
