package attendance

import (
	"context"
)

// AttendanceRepository defines data access for remote attendance sessions.
type AttendanceRepository interface {
	// LockEmployee serializes check-ins of one employee until the surrounding transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error

	Create(ctx context.Context, session Session) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)

	// GetOpenSession returns the most recently started session without check-out.
	GetOpenSession(ctx context.Context, employeeID string) (Session, error)

	// Update records the check-out and notes. worked_hours is recomputed from the timestamps.
	Update(ctx context.Context, session Session) error

	// UpdateStatus writes only the review status, leaving check-out data untouched.
	UpdateStatus(ctx context.Context, id string, status Status) error

	ListByEmployee(ctx context.Context, employeeID string, filter HistoryFilter) ([]Session, int64, error)
}
