package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db database.Pool
}

func NewUserRepository(db database.Pool) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// The linked employee is the active one; a user without one still logs in.
const userSelect = `
	SELECT u.id, u.company_id, u.email, u.password_hash, u.display_name, u.role,
		   u.mobile_hr, u.mobile_sales, u.mobile_purchase, u.mobile_project,
		   u.active, u.created_at, u.updated_at, e.id
	FROM users u
	LEFT JOIN employees e ON e.user_id = u.id AND e.active = TRUE
`

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u    user.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.DisplayName, &role,
		&u.Access.HR, &u.Access.Sales, &u.Access.Purchase, &u.Access.Project,
		&u.Active, &u.CreatedAt, &u.UpdatedAt, &u.EmployeeID,
	)
	if err != nil {
		return user.User{}, err
	}
	u.Role = identity.Role(role)
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+` WHERE LOWER(u.email) = LOWER($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}
