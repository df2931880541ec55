package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const openSessionIndex = "remote_attendances_one_open_per_employee"

const attendanceColumns = `
	a.id, a.employee_id, a.company_id, a.check_in, a.check_out,
	a.latitude, a.longitude, a.gps_accuracy,
	a.checkout_latitude, a.checkout_longitude, a.checkout_accuracy,
	a.photo_path, a.photo_filename, a.checkout_photo_path, a.checkout_photo_filename,
	a.device_info, a.is_mock_location, a.state, a.notes, a.low_accuracy,
	a.created_at, a.updated_at, e.full_name`

type attendanceRepository struct {
	db database.Pool
}

func NewAttendanceRepository(db database.Pool) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanSession(row pgx.Row) (attendance.Session, error) {
	var (
		s                                attendance.Session
		lat, lng, acc                    *float64
		outLat, outLng, outAcc           *float64
		photoPath, photoName             *string
		checkoutPhotoPath, checkoutPhoto *string
		state                            string
	)

	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.CompanyID, &s.CheckIn, &s.CheckOut,
		&lat, &lng, &acc,
		&outLat, &outLng, &outAcc,
		&photoPath, &photoName, &checkoutPhotoPath, &checkoutPhoto,
		&s.DeviceInfo, &s.IsMockLocation, &state, &s.Notes, &s.LowAccuracy,
		&s.CreatedAt, &s.UpdatedAt, &s.EmployeeName,
	)
	if err != nil {
		return attendance.Session{}, err
	}

	s.Status = attendance.Status(state)
	s.LocationIn = toLocation(lat, lng, acc)
	s.LocationOut = toLocation(outLat, outLng, outAcc)
	s.PhotoIn = toPhoto(photoPath, photoName)
	s.PhotoOut = toPhoto(checkoutPhotoPath, checkoutPhoto)
	return s, nil
}

func toLocation(lat, lng, acc *float64) *attendance.Location {
	if lat == nil || lng == nil {
		return nil
	}
	loc := &attendance.Location{Latitude: *lat, Longitude: *lng}
	if acc != nil {
		loc.Accuracy = *acc
	}
	return loc
}

func toPhoto(path, filename *string) *attendance.Photo {
	if path == nil {
		return nil
	}
	p := &attendance.Photo{Path: *path}
	if filename != nil {
		p.Filename = *filename
	}
	return p
}

func locationArgs(loc *attendance.Location) (lat, lng, acc *float64) {
	if loc == nil {
		return nil, nil, nil
	}
	return &loc.Latitude, &loc.Longitude, &loc.Accuracy
}

func photoArgs(p *attendance.Photo) (path, filename *string) {
	if p == nil {
		return nil, nil
	}
	return &p.Path, &p.Filename
}

// LockEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, a.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID); err != nil {
		return fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	return nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	lat, lng, acc := locationArgs(s.LocationIn)
	photoPath, photoName := photoArgs(s.PhotoIn)

	query := `
		INSERT INTO remote_attendances (
			employee_id, company_id, check_in,
			latitude, longitude, gps_accuracy,
			photo_path, photo_filename, device_info,
			is_mock_location, state, notes, low_accuracy
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.EmployeeID,
		s.CompanyID,
		s.CheckIn,
		lat, lng, acc,
		photoPath, photoName,
		s.DeviceInfo,
		s.IsMockLocation,
		s.Notes,
		s.LowAccuracy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == uniqueViolationCode && constraint == openSessionIndex {
			return attendance.Session{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return s, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM remote_attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return s, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenSession(ctx context.Context, employeeID string) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM remote_attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1
		  AND a.check_out IS NULL
		ORDER BY a.check_in DESC, a.id DESC
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrNotCheckedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to get open session: %w", err)
	}
	return s, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, s attendance.Session) error {
	q := GetQuerier(ctx, a.db)

	lat, lng, acc := locationArgs(s.LocationOut)
	photoPath, photoName := photoArgs(s.PhotoOut)

	query := `
		UPDATE remote_attendances SET
			check_out = $2,
			checkout_latitude = $3,
			checkout_longitude = $4,
			checkout_accuracy = $5,
			checkout_photo_path = $6,
			checkout_photo_filename = $7,
			is_mock_location = $8,
			notes = $9,
			low_accuracy = $10,
			worked_hours = COALESCE(EXTRACT(EPOCH FROM ($2::timestamptz - check_in))::double precision / 3600, 0),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		s.ID,
		s.CheckOut,
		lat, lng, acc,
		photoPath, photoName,
		s.IsMockLocation,
		s.Notes,
		s.LowAccuracy,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == checkViolationCode {
			return attendance.ErrCheckOutBeforeCheckIn
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// UpdateStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `UPDATE remote_attendances SET state = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update attendance status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Session, int64, error) {
	q := GetQuerier(ctx, a.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM remote_attendances WHERE employee_id = $1`, employeeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM remote_attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1
		ORDER BY a.check_in DESC, a.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, employeeID, filter.Limit, (filter.Page-1)*filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return sessions, total, nil
}
