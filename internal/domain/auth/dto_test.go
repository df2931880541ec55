package auth

import (
	"testing"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest_Validate(t *testing.T) {
	t.Run("padded mixed case email is normalized", func(t *testing.T) {
		req := LoginRequest{Email: "  Budi@Example.COM\t", Password: "secret"}

		require.NoError(t, req.Validate())
		assert.Equal(t, "budi@example.com", req.Email)
	})

	t.Run("blank email is required", func(t *testing.T) {
		req := LoginRequest{Email: "   ", Password: "secret"}

		err := req.Validate()
		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		require.Len(t, errs, 1)
		assert.Equal(t, "email", errs[0].Field)
		assert.Equal(t, "email is required", errs[0].Message)
	})

	t.Run("malformed email and missing password", func(t *testing.T) {
		req := LoginRequest{Email: "not-an-email"}

		err := req.Validate()
		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Len(t, errs, 2)
	})
}
