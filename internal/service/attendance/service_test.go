package attendance

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/service/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	sessions  map[string]attendance.Session
	locked    []string
	createErr error

	// beforeStatusWrite runs once inside UpdateStatus to interleave a concurrent writer.
	beforeStatusWrite func()
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{sessions: map[string]attendance.Session{}}
}

func (f *fakeAttendanceRepo) LockEmployee(ctx context.Context, employeeID string) error {
	f.locked = append(f.locked, employeeID)
	return nil
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	if f.createErr != nil {
		return attendance.Session{}, f.createErr
	}
	s.ID = uuid.NewString()
	s.CreatedAt = s.CheckIn
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return attendance.Session{}, attendance.ErrAttendanceNotFound
	}
	return s, nil
}

func (f *fakeAttendanceRepo) GetOpenSession(ctx context.Context, employeeID string) (attendance.Session, error) {
	var open []attendance.Session
	for _, s := range f.sessions {
		if s.EmployeeID == employeeID && s.IsOpen() {
			open = append(open, s)
		}
	}
	if len(open) == 0 {
		return attendance.Session{}, attendance.ErrNotCheckedIn
	}
	sort.Slice(open, func(i, j int) bool { return open[i].CheckIn.After(open[j].CheckIn) })
	return open[0], nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, s attendance.Session) error {
	stored, ok := f.sessions[s.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	s.Status = stored.Status
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeAttendanceRepo) UpdateStatus(ctx context.Context, id string, status attendance.Status) error {
	if hook := f.beforeStatusWrite; hook != nil {
		f.beforeStatusWrite = nil
		hook()
	}
	stored, ok := f.sessions[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	stored.Status = status
	f.sessions[id] = stored
	return nil
}

func (f *fakeAttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Session, int64, error) {
	var out []attendance.Session
	for _, s := range f.sessions {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.After(out[j].CheckIn) })
	total := int64(len(out))
	start := (filter.Page - 1) * filter.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

type fakeFileService struct {
	uploaded []string
	deleted  []string
}

func (f *fakeFileService) UploadAttendancePhoto(ctx context.Context, employeeID string, at time.Time, kind file.PhotoKind, data []byte) (file.StoredFile, error) {
	if string(data) == "broken" {
		return file.StoredFile{}, file.ErrInvalidImage
	}
	name := string(kind) + "_" + employeeID + "_" + at.Format("20060102_150405") + "_" + uuid.NewString() + ".jpg"
	path := "attendance/" + name
	f.uploaded = append(f.uploaded, path)
	return file.StoredFile{Path: path, Filename: name}, nil
}

func (f *fakeFileService) UploadDocumentAttachment(ctx context.Context, employeeID string, filename string, data []byte) (file.StoredFile, error) {
	return file.StoredFile{}, errors.New("not used")
}

func (f *fakeFileService) DeleteFile(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFileService) Open(ctx context.Context, path string) (storage.Object, error) {
	for _, p := range f.uploaded {
		if p == path && !slices.Contains(f.deleted, path) {
			return storage.Object{Body: io.NopCloser(strings.NewReader("jpeg:" + path)), ContentType: "image/jpeg"}, nil
		}
	}
	return storage.Object{}, file.ErrFileNotFound
}

func (f *fakeFileService) URL(elem ...string) string {
	return "http://files.local/" + strings.Join(elem, "/")
}

type fixture struct {
	svc   *AttendanceServiceImpl
	repo  *fakeAttendanceRepo
	files *fakeFileService
	clock time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:  newFakeAttendanceRepo(),
		files: &fakeFileService{},
		clock: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
	}
	f.svc = NewAttendanceService(fakeTx{}, f.repo, f.files, nil).(*AttendanceServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

var (
	employee = identity.Actor{UserID: "user-1", EmployeeID: "emp-1", CompanyID: "co-1", Role: identity.RoleEmployee, Modules: []identity.Module{identity.ModuleHR}}
	manager  = identity.Actor{UserID: "user-9", EmployeeID: "emp-9", CompanyID: "co-1", Role: identity.RoleManager, Modules: []identity.Module{identity.ModuleHR}}
)

func photo(s string) *string {
	encoded := base64.StdEncoding.EncodeToString([]byte(s))
	return &encoded
}

func TestCheckInCheckOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Latitude: -6.2, Longitude: 106.8, Accuracy: 10, PhotoBase64: photo("jpeg")})
	require.NoError(t, err)
	assert.True(t, in.Success)
	assert.Equal(t, "2024-03-04 08:00:00", in.CheckInTime)
	assert.False(t, in.LowAccuracy)
	assert.Equal(t, []string{"emp-1"}, f.repo.locked)

	stored := f.repo.sessions[in.AttendanceID]
	require.NotNil(t, stored.PhotoIn)
	assert.Regexp(t, `^checkin_emp-1_20240304_080000_[0-9a-f-]{36}\.jpg$`, stored.PhotoIn.Filename)
	assert.Equal(t, attendance.StatusDraft, stored.Status)

	status, err := f.svc.Status(ctx, employee)
	require.NoError(t, err)
	assert.True(t, status.CheckedIn)
	assert.Equal(t, in.AttendanceID, *status.AttendanceID)
	assert.Equal(t, -6.2, *status.Latitude)

	f.clock = f.clock.Add(7*time.Hour + 45*time.Minute)
	out, err := f.svc.CheckOut(ctx, employee, attendance.CheckOutRequest{Latitude: -6.2, Longitude: 106.8, Accuracy: 12})
	require.NoError(t, err)
	assert.Equal(t, in.AttendanceID, out.AttendanceID)
	assert.Equal(t, "2024-03-04 15:45:00", out.CheckOutTime)
	assert.Equal(t, 7.75, out.WorkedHours)

	status, err = f.svc.Status(ctx, employee)
	require.NoError(t, err)
	assert.False(t, status.CheckedIn)
	assert.Nil(t, status.AttendanceID)
}

func TestCheckInTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5, PhotoBase64: photo("jpeg")})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Empty(t, f.files.uploaded, "no photo stored for a rejected check-in")
	assert.Len(t, f.repo.sessions, 1)
}

func TestCheckInRaceLosesOnUniqueIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.repo.createErr = attendance.ErrAlreadyCheckedIn

	_, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5, PhotoBase64: photo("jpeg")})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, f.files.uploaded, f.files.deleted, "photo of the failed check-in is cleaned up")
}

func TestCheckInRaceKeepsWinnersPhoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	winner, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5, PhotoBase64: photo("jpeg")})
	require.NoError(t, err)
	winnerPhoto := f.repo.sessions[winner.AttendanceID].PhotoIn.Path

	// the loser passed the early check before the winner committed
	f.repo.createErr = attendance.ErrAlreadyCheckedIn
	delete(f.repo.sessions, winner.AttendanceID)
	_, err = f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5, PhotoBase64: photo("jpeg")})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	require.Len(t, f.files.deleted, 1)
	assert.NotEqual(t, winnerPhoto, f.files.deleted[0])
}

func TestCheckOutWithoutOpenSession(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CheckOut(context.Background(), employee, attendance.CheckOutRequest{Accuracy: 5})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCheckOutBeforeCheckInLeavesSessionOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5})
	require.NoError(t, err)

	f.clock = f.clock.Add(-time.Minute)
	_, err = f.svc.CheckOut(ctx, employee, attendance.CheckOutRequest{Accuracy: 5, PhotoBase64: photo("jpeg")})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
	assert.True(t, f.repo.sessions[in.AttendanceID].IsOpen())
	assert.Len(t, f.files.deleted, 1)
}

func TestLowAccuracyIsFlaggedNotRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 250})
	require.NoError(t, err)
	assert.True(t, in.LowAccuracy)

	stored := f.repo.sessions[in.AttendanceID]
	require.NotNil(t, stored.Notes)
	assert.Equal(t, attendance.LowAccuracyNote, *stored.Notes)
}

func TestInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Latitude: 91, Accuracy: 5})
	assert.Error(t, err)

	bad := "%%%"
	_, err = f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5, PhotoBase64: &bad})
	assert.ErrorIs(t, err, attendance.ErrInvalidPhoto)

	_, err = f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5, PhotoBase64: photo("broken")})
	assert.ErrorIs(t, err, attendance.ErrInvalidPhoto)

	_, err = f.svc.CheckIn(ctx, identity.Actor{UserID: "user-2"}, attendance.CheckInRequest{Accuracy: 5})
	assert.ErrorIs(t, err, user.ErrEmployeeRequired)

	assert.Empty(t, f.repo.sessions)
}

func TestReview(t *testing.T) {
	ctx := context.Background()

	t.Run("employees cannot review", func(t *testing.T) {
		f := newFixture()
		in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5})
		require.NoError(t, err)

		_, err = f.svc.Confirm(ctx, employee, in.AttendanceID)
		assert.ErrorIs(t, err, user.ErrReviewerAccessRequired)
	})

	t.Run("confirm reject reset", func(t *testing.T) {
		f := newFixture()
		in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5})
		require.NoError(t, err)

		resp, err := f.svc.Confirm(ctx, manager, in.AttendanceID)
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.State)

		resp, err = f.svc.Reject(ctx, manager, in.AttendanceID)
		require.NoError(t, err)
		assert.Equal(t, "rejected", resp.State)

		resp, err = f.svc.Reset(ctx, manager, in.AttendanceID)
		require.NoError(t, err)
		assert.Equal(t, "draft", resp.State)
		assert.Equal(t, attendance.StatusDraft, f.repo.sessions[in.AttendanceID].Status)
	})

	t.Run("confirm does not reopen a session checked out meanwhile", func(t *testing.T) {
		f := newFixture()
		in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5})
		require.NoError(t, err)

		f.clock = f.clock.Add(2 * time.Hour)
		f.repo.beforeStatusWrite = func() {
			_, err := f.svc.CheckOut(ctx, employee, attendance.CheckOutRequest{Accuracy: 5})
			require.NoError(t, err)
		}

		_, err = f.svc.Confirm(ctx, manager, in.AttendanceID)
		require.NoError(t, err)

		stored := f.repo.sessions[in.AttendanceID]
		assert.False(t, stored.IsOpen())
		assert.Equal(t, 2.0, stored.WorkedHours())
		assert.Equal(t, attendance.StatusConfirmed, stored.Status)
	})

	t.Run("mock location blocks confirm", func(t *testing.T) {
		f := newFixture()
		in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5, IsMock: true})
		require.NoError(t, err)

		_, err = f.svc.Confirm(ctx, manager, in.AttendanceID)
		assert.ErrorIs(t, err, attendance.ErrMockLocation)
		assert.ErrorIs(t, err, apperror.ErrPolicy)
		assert.Equal(t, attendance.StatusDraft, f.repo.sessions[in.AttendanceID].Status)
	})

	t.Run("other company is invisible", func(t *testing.T) {
		f := newFixture()
		in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5})
		require.NoError(t, err)

		outsider := manager
		outsider.CompanyID = "co-2"
		_, err = f.svc.Confirm(ctx, outsider, in.AttendanceID)
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})
}

func TestGetVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5, PhotoBase64: photo("jpeg")})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, employee, in.AttendanceID)
	require.NoError(t, err)
	require.NotNil(t, got.PhotoURL)
	assert.Equal(t, "http://files.local/attendance/"+in.AttendanceID+"/photo/checkin", *got.PhotoURL)
	assert.Nil(t, got.CheckoutPhotoURL)

	_, err = f.svc.Get(ctx, manager, in.AttendanceID)
	require.NoError(t, err)

	colleague := identity.Actor{UserID: "user-3", EmployeeID: "emp-3", CompanyID: "co-1", Role: identity.RoleEmployee}
	_, err = f.svc.Get(ctx, colleague, in.AttendanceID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = f.svc.Get(ctx, employee, "not-a-uuid")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestPhoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	in, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5, PhotoBase64: photo("jpeg")})
	require.NoError(t, err)
	stored := f.repo.sessions[in.AttendanceID]

	obj, err := f.svc.Photo(ctx, employee, in.AttendanceID, "checkin")
	require.NoError(t, err)
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg:"+stored.PhotoIn.Path, string(data))
	assert.Equal(t, stored.PhotoIn.Filename, obj.Name)

	t.Run("reviewer of the same company", func(t *testing.T) {
		obj, err := f.svc.Photo(ctx, manager, in.AttendanceID, "checkin")
		require.NoError(t, err)
		obj.Body.Close()
	})

	t.Run("colleague cannot see it", func(t *testing.T) {
		colleague := identity.Actor{UserID: "user-3", EmployeeID: "emp-3", CompanyID: "co-1", Role: identity.RoleEmployee}
		_, err := f.svc.Photo(ctx, colleague, in.AttendanceID, "checkin")
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("no checkout photo yet", func(t *testing.T) {
		_, err := f.svc.Photo(ctx, employee, in.AttendanceID, "checkout")
		assert.ErrorIs(t, err, attendance.ErrPhotoNotFound)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := f.svc.Photo(ctx, employee, in.AttendanceID, "../../etc/passwd")
		assert.ErrorIs(t, err, attendance.ErrPhotoNotFound)
	})

	t.Run("file gone from storage", func(t *testing.T) {
		f.files.deleted = append(f.files.deleted, stored.PhotoIn.Path)
		_, err := f.svc.Photo(ctx, employee, in.AttendanceID, "checkin")
		assert.ErrorIs(t, err, attendance.ErrPhotoNotFound)
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for i := 0; i < 3; i++ {
		_, err := f.svc.CheckIn(ctx, employee, attendance.CheckInRequest{Accuracy: 5})
		require.NoError(t, err)
		f.clock = f.clock.Add(time.Hour)
		_, err = f.svc.CheckOut(ctx, employee, attendance.CheckOutRequest{Accuracy: 5})
		require.NoError(t, err)
		f.clock = f.clock.Add(23 * time.Hour)
	}

	resp, err := f.svc.History(ctx, employee, attendance.HistoryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Attendances, 2)
	assert.Equal(t, "2024-03-06 08:00:00", resp.Attendances[0].CheckIn)
	assert.Equal(t, 1.0, resp.Attendances[0].WorkedHours)
}
