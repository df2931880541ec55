package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/employee"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
)

type UserServiceImpl struct {
	user.UserRepository
	user.DashboardRepository
	employee.EmployeeRepository
	attendance.AttendanceRepository
	now func() time.Time
}

func NewUserService(
	userRepo user.UserRepository,
	dashboardRepo user.DashboardRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
) user.UserService {
	return &UserServiceImpl{
		UserRepository:       userRepo,
		DashboardRepository:  dashboardRepo,
		EmployeeRepository:   employeeRepo,
		AttendanceRepository: attendanceRepo,
		now:                  time.Now,
	}
}

// Permissions implements user.UserService.
func (s *UserServiceImpl) Permissions(ctx context.Context, actor identity.Actor) (user.PermissionsResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.PermissionsResponse{}, err
		}
		return user.PermissionsResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	// Module flags may have changed since the token was issued
	current := actor
	current.Role = u.Role
	current.Modules = u.Access.Modules()

	granted := user.PermissionsOf(current)
	if granted == nil {
		granted = []user.Permission{}
	}

	return user.PermissionsResponse{
		UserID:      u.ID,
		Username:    u.Email,
		DisplayName: u.DisplayName,
		EmployeeID:  u.EmployeeID,
		IsManager:   u.IsManager(),
		Modules: user.ModuleAccessResponse{
			HR:       u.Access.HR,
			Sales:    u.Access.Sales,
			Purchase: u.Access.Purchase,
			Project:  u.Access.Project,
		},
		Permissions: granted,
	}, nil
}

// Dashboard implements user.UserService.
func (s *UserServiceImpl) Dashboard(ctx context.Context, actor identity.Actor) (user.DashboardResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.DashboardResponse{}, err
		}
		return user.DashboardResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	resp := user.DashboardResponse{
		User: user.DashboardUser{
			ID:    u.ID,
			Name:  u.DisplayName,
			Email: u.Email,
		},
	}

	if actor.HasEmployee() {
		emp, err := s.EmployeeRepository.GetByID(ctx, actor.EmployeeID)
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return user.DashboardResponse{}, fmt.Errorf("failed to get employee: %w", err)
		}
		if err == nil {
			resp.Employee = &user.DashboardEmployee{
				ID:         emp.ID,
				Name:       emp.FullName,
				JobTitle:   emp.JobTitle,
				Department: emp.Department,
			}
		}
	}

	if resp.Employee != nil && u.Access.HR {
		pending, err := s.DashboardRepository.CountPendingDocuments(ctx, actor.EmployeeID)
		if err != nil {
			return user.DashboardResponse{}, fmt.Errorf("failed to count pending documents: %w", err)
		}
		resp.Summary.PendingDocuments = &pending

		now := s.now().UTC()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		thisMonth, err := s.DashboardRepository.CountAttendanceSince(ctx, actor.EmployeeID, monthStart)
		if err != nil {
			return user.DashboardResponse{}, fmt.Errorf("failed to count attendance: %w", err)
		}
		resp.Summary.AttendanceThisMonth = &thisMonth

		checkedIn := true
		if _, err := s.AttendanceRepository.GetOpenSession(ctx, actor.EmployeeID); err != nil {
			if !errors.Is(err, attendance.ErrNotCheckedIn) {
				return user.DashboardResponse{}, fmt.Errorf("failed to get open session: %w", err)
			}
			checkedIn = false
		}
		resp.Summary.CheckedIn = &checkedIn
	}

	if u.Access.Sales && u.CompanyID != nil {
		open, err := s.DashboardRepository.CountOpenInvoices(ctx, *u.CompanyID)
		if err != nil {
			return user.DashboardResponse{}, fmt.Errorf("failed to count open invoices: %w", err)
		}
		resp.Summary.OpenInvoices = &open
	}

	return resp, nil
}
