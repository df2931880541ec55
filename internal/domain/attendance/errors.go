package attendance

import "github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn      = apperror.New(apperror.KindConflict, "already checked in, please check out first")
	ErrNotCheckedIn          = apperror.New(apperror.KindNotFound, "no open check-in found, please check in first")
	ErrAlreadyCheckedOut     = apperror.New(apperror.KindConflict, "attendance has already been checked out")
	ErrCheckOutBeforeCheckIn = apperror.New(apperror.KindValidation, "check out time cannot be before check in time")
	ErrMockLocation          = apperror.New(apperror.KindPolicy, "cannot confirm attendance with mock location detected")
	ErrAttendanceNotFound    = apperror.New(apperror.KindNotFound, "attendance record not found")
	ErrInvalidPhoto          = apperror.New(apperror.KindValidation, "photo must be a base64 encoded jpg or png image")
	ErrPhotoNotFound         = apperror.New(apperror.KindNotFound, "attendance photo not found")
)
