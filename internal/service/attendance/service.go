package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/metrics"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/service/file"
)

const timeLayout = "2006-01-02 15:04:05"

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	fileService file.FileService
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	fileService file.FileService,
	m *metrics.Metrics,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		fileService:          fileService,
		metrics:              m,
		now:                  time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(timeLayout)
	return &format
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, actor identity.Actor, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}
	if !actor.HasEmployee() {
		return attendance.CheckInResponse{}, user.ErrEmployeeRequired
	}

	// Fail fast before storing a photo for an employee who is already checked in
	if _, err := a.AttendanceRepository.GetOpenSession(ctx, actor.EmployeeID); err == nil {
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	} else if !errors.Is(err, attendance.ErrNotCheckedIn) {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	now := a.now().UTC()

	photo, err := a.storePhoto(ctx, actor.EmployeeID, now, file.PhotoCheckIn, req.PhotoBase64)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	session := attendance.NewSession(
		actor.EmployeeID,
		actor.CompanyID,
		now,
		&attendance.Location{Latitude: req.Latitude, Longitude: req.Longitude, Accuracy: req.Accuracy},
		req.DeviceInfo,
		req.IsMock,
	)
	session.PhotoIn = photo

	var created attendance.Session
	err = a.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := a.AttendanceRepository.LockEmployee(txCtx, actor.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee attendance: %w", err)
		}

		_, err := a.AttendanceRepository.GetOpenSession(txCtx, actor.EmployeeID)
		if err == nil {
			return attendance.ErrAlreadyCheckedIn
		}
		if !errors.Is(err, attendance.ErrNotCheckedIn) {
			return fmt.Errorf("failed to get open session: %w", err)
		}

		created, err = a.AttendanceRepository.Create(txCtx, session)
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				return err
			}
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		a.discardPhoto(ctx, photo)
		return attendance.CheckInResponse{}, err
	}

	a.recordSessionEvents("check_in", created, req.IsMock)

	message := "Check-in recorded successfully"
	if created.LowAccuracy {
		message = "Check-in recorded with low GPS accuracy"
	}

	return attendance.CheckInResponse{
		Success:      true,
		AttendanceID: created.ID,
		CheckInTime:  created.CheckIn.Format(timeLayout),
		LowAccuracy:  created.LowAccuracy,
		Message:      message,
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, actor identity.Actor, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}
	if !actor.HasEmployee() {
		return attendance.CheckOutResponse{}, user.ErrEmployeeRequired
	}

	if _, err := a.AttendanceRepository.GetOpenSession(ctx, actor.EmployeeID); err != nil {
		if errors.Is(err, attendance.ErrNotCheckedIn) {
			return attendance.CheckOutResponse{}, err
		}
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	now := a.now().UTC()

	photo, err := a.storePhoto(ctx, actor.EmployeeID, now, file.PhotoCheckOut, req.PhotoBase64)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	var closed attendance.Session
	err = a.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := a.AttendanceRepository.LockEmployee(txCtx, actor.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee attendance: %w", err)
		}

		session, err := a.AttendanceRepository.GetOpenSession(txCtx, actor.EmployeeID)
		if err != nil {
			if errors.Is(err, attendance.ErrNotCheckedIn) {
				return err
			}
			return fmt.Errorf("failed to get open session: %w", err)
		}

		loc := &attendance.Location{Latitude: req.Latitude, Longitude: req.Longitude, Accuracy: req.Accuracy}
		if err := session.Close(now, loc); err != nil {
			return err
		}
		session.PhotoOut = photo
		if req.IsMock {
			session.IsMockLocation = true
		}

		if err := a.AttendanceRepository.Update(txCtx, session); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		closed = session
		return nil
	})
	if err != nil {
		a.discardPhoto(ctx, photo)
		return attendance.CheckOutResponse{}, err
	}

	a.recordSessionEvents("check_out", closed, req.IsMock)

	message := "Check-out recorded successfully"
	if closed.LowAccuracy {
		message = "Check-out recorded with low GPS accuracy"
	}

	return attendance.CheckOutResponse{
		Success:      true,
		AttendanceID: closed.ID,
		CheckOutTime: closed.CheckOut.Format(timeLayout),
		WorkedHours:  roundHours(closed.WorkedHours()),
		LowAccuracy:  closed.LowAccuracy,
		Message:      message,
	}, nil
}

// Status implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Status(ctx context.Context, actor identity.Actor) (attendance.StatusResponse, error) {
	if !actor.HasEmployee() {
		return attendance.StatusResponse{}, user.ErrEmployeeRequired
	}

	session, err := a.AttendanceRepository.GetOpenSession(ctx, actor.EmployeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrNotCheckedIn) {
			return attendance.StatusResponse{CheckedIn: false}, nil
		}
		return attendance.StatusResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	resp := attendance.StatusResponse{
		CheckedIn:    true,
		AttendanceID: &session.ID,
		CheckInTime:  timePtrToString(&session.CheckIn),
	}
	if session.LocationIn != nil {
		resp.Latitude = &session.LocationIn.Latitude
		resp.Longitude = &session.LocationIn.Longitude
	}
	return resp, nil
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, actor identity.Actor, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !actor.HasEmployee() {
		return attendance.ListAttendanceResponse{}, user.ErrEmployeeRequired
	}

	sessions, total, err := a.AttendanceRepository.ListByEmployee(ctx, actor.EmployeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	records := make([]attendance.AttendanceResponse, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, a.mapSessionToResponse(ctx, s))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: records,
	}, nil
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, actor identity.Actor, id string) (attendance.AttendanceResponse, error) {
	session, err := a.getVisible(ctx, actor, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.mapSessionToResponse(ctx, session), nil
}

// Confirm implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Confirm(ctx context.Context, actor identity.Actor, id string) (attendance.AttendanceResponse, error) {
	return a.review(ctx, actor, id, "confirm", func(s *attendance.Session) error {
		return s.Confirm()
	})
}

// Reject implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Reject(ctx context.Context, actor identity.Actor, id string) (attendance.AttendanceResponse, error) {
	return a.review(ctx, actor, id, "reject", func(s *attendance.Session) error {
		s.Reject()
		return nil
	})
}

// Reset implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Reset(ctx context.Context, actor identity.Actor, id string) (attendance.AttendanceResponse, error) {
	return a.review(ctx, actor, id, "reset", func(s *attendance.Session) error {
		s.Reset()
		return nil
	})
}

func (a *AttendanceServiceImpl) review(ctx context.Context, actor identity.Actor, id string, action string, apply func(*attendance.Session) error) (attendance.AttendanceResponse, error) {
	if !actor.CanReview() {
		return attendance.AttendanceResponse{}, user.ErrReviewerAccessRequired
	}

	session, err := a.getVisible(ctx, actor, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := apply(&session); err != nil {
		if errors.Is(err, attendance.ErrMockLocation) {
			slog.Warn("refused to confirm mock location attendance",
				"attendance_id", session.ID,
				"employee_id", session.EmployeeID,
				"reviewer_id", actor.UserID,
			)
		}
		return attendance.AttendanceResponse{}, err
	}

	if err := a.AttendanceRepository.UpdateStatus(ctx, session.ID, session.Status); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to %s attendance: %w", action, err)
	}

	slog.Info("attendance reviewed",
		"attendance_id", session.ID,
		"action", action,
		"status", session.Status,
		"reviewer_id", actor.UserID,
	)

	return a.mapSessionToResponse(ctx, session), nil
}

// Photo implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Photo(ctx context.Context, actor identity.Actor, id string, kind string) (storage.Object, error) {
	session, err := a.getVisible(ctx, actor, id)
	if err != nil {
		return storage.Object{}, err
	}

	var photo *attendance.Photo
	switch file.PhotoKind(kind) {
	case file.PhotoCheckIn:
		photo = session.PhotoIn
	case file.PhotoCheckOut:
		photo = session.PhotoOut
	}
	if photo == nil {
		return storage.Object{}, attendance.ErrPhotoNotFound
	}

	obj, err := a.fileService.Open(ctx, photo.Path)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			slog.Warn("attendance photo missing from storage", "attendance_id", session.ID, "path", photo.Path)
			return storage.Object{}, attendance.ErrPhotoNotFound
		}
		return storage.Object{}, fmt.Errorf("failed to open attendance photo: %w", err)
	}
	obj.Name = photo.Filename
	return obj, nil
}

// getVisible loads a session the actor may see: their own, or any in their company for reviewers.
func (a *AttendanceServiceImpl) getVisible(ctx context.Context, actor identity.Actor, id string) (attendance.Session, error) {
	if !validator.IsValidUUID(id) {
		return attendance.Session{}, attendance.ErrAttendanceNotFound
	}

	session, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Session{}, err
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	own := actor.HasEmployee() && session.EmployeeID == actor.EmployeeID
	sameCompany := actor.CompanyID != "" && session.CompanyID == actor.CompanyID
	if !own && !(actor.CanReview() && sameCompany) {
		return attendance.Session{}, attendance.ErrAttendanceNotFound
	}
	return session, nil
}

func (a *AttendanceServiceImpl) storePhoto(ctx context.Context, employeeID string, at time.Time, kind file.PhotoKind, photoBase64 *string) (*attendance.Photo, error) {
	if photoBase64 == nil || *photoBase64 == "" {
		return nil, nil
	}

	data, err := validator.DecodeBase64(*photoBase64)
	if err != nil {
		return nil, attendance.ErrInvalidPhoto
	}

	stored, err := a.fileService.UploadAttendancePhoto(ctx, employeeID, at, kind, data)
	if err != nil {
		if errors.Is(err, file.ErrInvalidImage) {
			return nil, attendance.ErrInvalidPhoto
		}
		return nil, fmt.Errorf("failed to store attendance photo: %w", err)
	}

	return &attendance.Photo{Path: stored.Path, Filename: stored.Filename}, nil
}

func (a *AttendanceServiceImpl) discardPhoto(ctx context.Context, photo *attendance.Photo) {
	if photo == nil {
		return
	}
	if err := a.fileService.DeleteFile(ctx, photo.Path); err != nil {
		slog.Warn("failed to delete orphaned attendance photo", "path", photo.Path, "error", err)
	}
}

func (a *AttendanceServiceImpl) recordSessionEvents(event string, s attendance.Session, mock bool) {
	a.metrics.AttendanceEvent(event)

	if s.LowAccuracy {
		a.metrics.AttendanceEvent("low_accuracy")
		slog.Warn("low GPS accuracy on attendance",
			"attendance_id", s.ID,
			"employee_id", s.EmployeeID,
			"event", event,
		)
	}
	if mock {
		a.metrics.AttendanceEvent("mock_location")
		slog.Warn("mock location reported on attendance",
			"attendance_id", s.ID,
			"employee_id", s.EmployeeID,
			"event", event,
		)
	}
}

func (a *AttendanceServiceImpl) mapSessionToResponse(ctx context.Context, s attendance.Session) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:             s.ID,
		EmployeeID:     s.EmployeeID,
		CheckIn:        s.CheckIn.Format(timeLayout),
		CheckOut:       timePtrToString(s.CheckOut),
		DeviceInfo:     s.DeviceInfo,
		IsMockLocation: s.IsMockLocation,
		WorkedHours:    roundHours(s.WorkedHours()),
		State:          string(s.Status),
		Notes:          s.Notes,
		LowAccuracy:    s.LowAccuracy,
	}
	if s.EmployeeName != nil {
		resp.EmployeeName = *s.EmployeeName
	}
	if s.LocationIn != nil {
		resp.Latitude = &s.LocationIn.Latitude
		resp.Longitude = &s.LocationIn.Longitude
		resp.GPSAccuracy = &s.LocationIn.Accuracy
	}
	if s.LocationOut != nil {
		resp.CheckoutLatitude = &s.LocationOut.Latitude
		resp.CheckoutLongitude = &s.LocationOut.Longitude
		resp.CheckoutAccuracy = &s.LocationOut.Accuracy
	}
	resp.PhotoURL = a.photoURL(s.ID, file.PhotoCheckIn, s.PhotoIn)
	resp.CheckoutPhotoURL = a.photoURL(s.ID, file.PhotoCheckOut, s.PhotoOut)
	return resp
}

// photoURL points at the authenticated photo route of the session.
func (a *AttendanceServiceImpl) photoURL(sessionID string, kind file.PhotoKind, photo *attendance.Photo) *string {
	if photo == nil {
		return nil
	}
	url := a.fileService.URL("attendance", sessionID, "photo", string(kind))
	return &url
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
