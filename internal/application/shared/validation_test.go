package shared

import (
	"testing"

	domain "github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Kind     string `validate:"omitempty,oneof=in out"`
}

func TestValidateInput(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateInput(signupForm{Email: "a@example.com", Password: "12345678"}))
	})

	t.Run("collects every violation", func(t *testing.T) {
		err := ValidateInput(signupForm{Email: "nope", Password: "short", Kind: "sideways"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "email: invalid email format")
		assert.Contains(t, err.Error(), "password: must be at least 8 characters")
		assert.Contains(t, err.Error(), "Kind: must be one of: in out")
	})

	t.Run("required", func(t *testing.T) {
		err := ValidateInput(signupForm{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email: is required")
	})

	t.Run("non-struct input", func(t *testing.T) {
		assert.ErrorIs(t, ValidateInput(42), domain.ErrInvalidInput)
	})
}
