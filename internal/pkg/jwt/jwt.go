package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

// AccessClaims is what the mobile app token carries about its user.
type AccessClaims struct {
	UserID     string
	Email      string
	EmployeeID *string
	CompanyID  *string
	Role       identity.Role
	Modules    []identity.Module
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}

	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	modules := make([]string, 0, len(claims.Modules))
	for _, m := range claims.Modules {
		modules = append(modules, string(m))
	}

	payload := map[string]interface{}{
		"user_id":     claims.UserID,
		"email":       claims.Email,
		"employee_id": valueOrNil(claims.EmployeeID),
		"company_id":  valueOrNil(claims.CompanyID),
		"role":        string(claims.Role),
		"modules":     modules,
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(payload)
	return tokenString, expiresAt, err
}

func valueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
