package security

import (
	"testing"

	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `json:"username" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Country  string `json:"country" validate:"max=4"`
}

func TestValidationService_Validate(t *testing.T) {
	v := NewValidationService()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(signupForm{Username: "nonna", Email: "n@example.com"}))
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := v.Validate(signupForm{Username: "  ", Email: "not-an-email", Country: "Italia"})

		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

		fields := appErr.Metadata["validation_errors"].(apperrors.ValidationErrors)
		require.Len(t, fields, 3)
		assert.Equal(t, "username", fields[0].Field)
		assert.Equal(t, "username is required", fields[0].Message)
		assert.Equal(t, "email must be a valid email address", fields[1].Message)
		assert.Equal(t, "country must be at most 4 characters", fields[2].Message)
	})
}
