package attendance

import (
	"context"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/storage"
)

// AttendanceService defines remote attendance operations for the acting employee.
type AttendanceService interface {
	CheckIn(ctx context.Context, actor identity.Actor, req CheckInRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, actor identity.Actor, req CheckOutRequest) (CheckOutResponse, error)

	// Status reports whether the actor currently has an open session.
	Status(ctx context.Context, actor identity.Actor) (StatusResponse, error)
	History(ctx context.Context, actor identity.Actor, filter HistoryFilter) (ListAttendanceResponse, error)
	Get(ctx context.Context, actor identity.Actor, id string) (AttendanceResponse, error)

	// Photo opens the "checkin" or "checkout" photo of a session the actor can see.
	Photo(ctx context.Context, actor identity.Actor, id string, kind string) (storage.Object, error)

	// Reviewer actions
	Confirm(ctx context.Context, actor identity.Actor, id string) (AttendanceResponse, error)
	Reject(ctx context.Context, actor identity.Actor, id string) (AttendanceResponse, error)
	Reset(ctx context.Context, actor identity.Actor, id string) (AttendanceResponse, error)
}
