package attendance

import (
	"strings"
	"time"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// LowAccuracyThreshold is the GPS accuracy (meters) above which a session is flagged.
const LowAccuracyThreshold = 100.0

const LowAccuracyNote = "Warning: Low GPS accuracy detected."

type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

type Photo struct {
	Path     string
	Filename string
}

// Session is one remote check-in, closed by the matching check-out.
type Session struct {
	ID             string
	EmployeeID     string
	CompanyID      string
	CheckIn        time.Time
	CheckOut       *time.Time
	LocationIn     *Location
	LocationOut    *Location
	PhotoIn        *Photo
	PhotoOut       *Photo
	DeviceInfo     *string
	IsMockLocation bool
	Status         Status
	Notes          *string
	LowAccuracy    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	EmployeeName *string
}

// NewSession opens a draft session at checkIn.
func NewSession(employeeID, companyID string, checkIn time.Time, loc *Location, deviceInfo *string, isMock bool) Session {
	s := Session{
		EmployeeID:     employeeID,
		CompanyID:      companyID,
		CheckIn:        checkIn,
		LocationIn:     loc,
		DeviceInfo:     deviceInfo,
		IsMockLocation: isMock,
		Status:         StatusDraft,
	}
	if loc != nil {
		s.flagAccuracy(loc.Accuracy)
	}
	return s
}

func (s Session) IsOpen() bool {
	return s.CheckOut == nil
}

// WorkedHours is derived from the two timestamps, 0 while the session is open.
func (s Session) WorkedHours() float64 {
	if s.CheckOut == nil {
		return 0
	}
	return s.CheckOut.Sub(s.CheckIn).Hours()
}

// Close records the check-out. The session is left untouched on error.
func (s *Session) Close(at time.Time, loc *Location) error {
	if !s.IsOpen() {
		return ErrAlreadyCheckedOut
	}
	if at.Before(s.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}
	s.CheckOut = &at
	s.LocationOut = loc
	if loc != nil {
		s.flagAccuracy(loc.Accuracy)
	}
	return nil
}

// Validate checks the timestamp ordering of a session that is about to be persisted.
func (s Session) Validate() error {
	if s.CheckOut != nil && s.CheckOut.Before(s.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}
	return nil
}

func (s *Session) Confirm() error {
	if s.IsMockLocation {
		return ErrMockLocation
	}
	s.Status = StatusConfirmed
	return nil
}

func (s *Session) Reject() {
	s.Status = StatusRejected
}

func (s *Session) Reset() {
	s.Status = StatusDraft
}

func (s *Session) flagAccuracy(accuracy float64) {
	if accuracy <= LowAccuracyThreshold {
		return
	}
	s.LowAccuracy = true
	if s.Notes != nil && strings.Contains(*s.Notes, LowAccuracyNote) {
		return
	}
	notes := LowAccuracyNote
	if s.Notes != nil && *s.Notes != "" {
		notes = *s.Notes + "\n" + LowAccuracyNote
	}
	s.Notes = &notes
}
