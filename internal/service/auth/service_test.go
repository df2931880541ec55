package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/auth"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := f.users[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func newTestAuthService(t *testing.T, users ...user.User) (auth.AuthService, jwt.Service) {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]user.User{}}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	return NewAuthService(repo, jwtService), jwtService
}

func testUser(t *testing.T, email string) user.User {
	t.Helper()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hashedPassword)
	companyID := "co-1"
	employeeID := "emp-1"
	return user.User{
		ID:           "user-1",
		CompanyID:    &companyID,
		Email:        email,
		PasswordHash: &hashed,
		DisplayName:  "Budi",
		Role:         identity.RoleEmployee,
		Access:       user.ModuleAccess{HR: true, Sales: true},
		Active:       true,
		EmployeeID:   &employeeID,
	}
}

// Test Login with valid credentials
func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	authService, jwtService := newTestAuthService(t, testUser(t, "budi@example.com"))

	// Act
	response, err := authService.Login(ctx, auth.LoginRequest{Email: " Budi@Example.com ", Password: "password123"})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Greater(t, response.AccessTokenExpiresIn, int64(0))

	token, err := jwtService.JWTAuth().Decode(response.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(ctx)
	require.NoError(t, err)

	actor, err := identity.FromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", actor.UserID)
	assert.Equal(t, "emp-1", actor.EmployeeID)
	assert.Equal(t, "co-1", actor.CompanyID)
	assert.Equal(t, []identity.Module{identity.ModuleHR, identity.ModuleSales}, actor.Modules)
}

// Test Login with invalid password
func TestAuthService_Login_InvalidPassword(t *testing.T) {
	authService, _ := newTestAuthService(t, testUser(t, "budi@example.com"))

	_, err := authService.Login(context.Background(), auth.LoginRequest{Email: "budi@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

// Test Login with unknown email
func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := newTestAuthService(t)

	_, err := authService.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

// Test Login on a deactivated account
func TestAuthService_Login_Inactive(t *testing.T) {
	u := testUser(t, "budi@example.com")
	u.Active = false
	authService, _ := newTestAuthService(t, u)

	_, err := authService.Login(context.Background(), auth.LoginRequest{Email: "budi@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

// Test Login for a user created without a password
func TestAuthService_Login_NoPassword(t *testing.T) {
	u := testUser(t, "budi@example.com")
	u.PasswordHash = nil
	authService, _ := newTestAuthService(t, u)

	_, err := authService.Login(context.Background(), auth.LoginRequest{Email: "budi@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

// Test Login with malformed input
func TestAuthService_Login_Validation(t *testing.T) {
	authService, _ := newTestAuthService(t)

	_, err := authService.Login(context.Background(), auth.LoginRequest{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}
