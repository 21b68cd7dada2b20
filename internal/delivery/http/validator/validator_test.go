package validator

import (
	"testing"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassesValidInput(t *testing.T) {
	v := New()

	err := v.Validate(&usecase.RegisterEmailInput{
		Email:    "shopper@example.com",
		Password: "correct-horse",
		FullName: "Shopper",
	})
	require.NoError(t, err)
}

func TestValidateRejectsInvalidInput(t *testing.T) {
	v := New()

	err := v.Validate(&usecase.RegisterEmailInput{
		Email:    "not-an-email",
		Password: "short",
		FullName: "",
	})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
	assert.NotEmpty(t, appErr.Details())
}
