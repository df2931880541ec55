package attendance

import (
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Accuracy    float64 `json:"accuracy"`
	PhotoBase64 *string `json:"photo_base64,omitempty"`
	DeviceInfo  *string `json:"device_info,omitempty"`
	IsMock      bool    `json:"is_mock"`
}

func (r *CheckInRequest) Validate() error {
	errs := validateLocation(r.Latitude, r.Longitude, r.Accuracy)

	if r.DeviceInfo != nil && len(*r.DeviceInfo) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "device_info",
			Message: "device_info must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Accuracy    float64 `json:"accuracy"`
	PhotoBase64 *string `json:"photo_base64,omitempty"`
	IsMock      bool    `json:"is_mock"`
}

func (r *CheckOutRequest) Validate() error {
	errs := validateLocation(r.Latitude, r.Longitude, r.Accuracy)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateLocation(lat, lng, accuracy float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if lat < -90 || lat > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if lng < -180 || lng > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	// Low accuracy is a soft warning, only negative values are rejected.
	if accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must not be negative",
		})
	}

	return errs
}

type CheckInResponse struct {
	Success      bool   `json:"success"`
	AttendanceID string `json:"attendance_id"`
	CheckInTime  string `json:"check_in_time"`
	LowAccuracy  bool   `json:"low_accuracy"`
	Message      string `json:"message"`
}

type CheckOutResponse struct {
	Success      bool    `json:"success"`
	AttendanceID string  `json:"attendance_id"`
	CheckOutTime string  `json:"check_out_time"`
	WorkedHours  float64 `json:"worked_hours"`
	LowAccuracy  bool    `json:"low_accuracy"`
	Message      string  `json:"message"`
}

type StatusResponse struct {
	CheckedIn    bool     `json:"checked_in"`
	AttendanceID *string  `json:"attendance_id,omitempty"`
	CheckInTime  *string  `json:"check_in_time,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

type AttendanceResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	EmployeeName      string   `json:"employee_name,omitempty"`
	CheckIn           string   `json:"check_in"`
	CheckOut          *string  `json:"check_out"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	GPSAccuracy       *float64 `json:"gps_accuracy,omitempty"`
	CheckoutLatitude  *float64 `json:"checkout_latitude,omitempty"`
	CheckoutLongitude *float64 `json:"checkout_longitude,omitempty"`
	CheckoutAccuracy  *float64 `json:"checkout_accuracy,omitempty"`
	PhotoURL          *string  `json:"photo_url,omitempty"`
	CheckoutPhotoURL  *string  `json:"checkout_photo_url,omitempty"`
	DeviceInfo        *string  `json:"device_info,omitempty"`
	IsMockLocation    bool     `json:"is_mock_location"`
	WorkedHours       float64  `json:"worked_hours"`
	State             string   `json:"state"`
	Notes             *string  `json:"notes,omitempty"`
	LowAccuracy       bool     `json:"low_accuracy"`
}

type HistoryFilter struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 30
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"records"`
}
