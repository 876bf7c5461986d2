package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/blocodev/wallethub/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(errors.New("name is required"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "name is required")
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("hello", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
	assert.Error(t, validation.Validate("\t\n", NotBlank))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, validation.Validate("john@example.com", Email))
	assert.NoError(t, validation.Validate("john.doe+tag@sub.example.co", Email))
	assert.Error(t, validation.Validate("not-an-email", Email))
	assert.Error(t, validation.Validate("john@", Email))
	assert.Error(t, validation.Validate("@example.com", Email))
}

func TestPositiveAmount(t *testing.T) {
	assert.NoError(t, validation.Validate("10", PositiveAmount))
	assert.NoError(t, validation.Validate("0.00000001", PositiveAmount))
	assert.Error(t, validation.Validate("0", PositiveAmount))
	assert.Error(t, validation.Validate("-5", PositiveAmount))
	assert.Error(t, validation.Validate("abc", PositiveAmount))
}

func TestUUID(t *testing.T) {
	assert.NoError(t, validation.Validate("018f3c57-7a2b-7c4d-8e9f-0a1b2c3d4e5f", UUID))
	assert.Error(t, validation.Validate("not-a-uuid", UUID))
	assert.Error(t, validation.Validate("12345", UUID))
}

func TestPasswordStrength(t *testing.T) {
	rule := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	assert.NoError(t, rule.Validate("SecurePass123!"))
	assert.Error(t, rule.Validate("Sh0rt!"))
	assert.Error(t, rule.Validate("alllowercase123!"))
	assert.Error(t, rule.Validate("ALLUPPERCASE123!"))
	assert.Error(t, rule.Validate("NoNumbersHere!"))
	assert.Error(t, rule.Validate("NoSpecials123"))
}
