package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Phone    string `validate:"omitempty,e164"`
}

func TestValidate_Valid(t *testing.T) {
	p := registerPayload{Email: "alice@example.com", Password: "Sup3rSecret"}
	assert.NoError(t, Validate(p))
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	p := registerPayload{Email: "not-an-email", Password: "pw"}

	err := Validate(p)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
	assert.Contains(t, err.Error(), "field 'Email'")
}

func TestValidate_PhoneFormat(t *testing.T) {
	ok := registerPayload{Email: "a@b.com", Password: "longenough", Phone: "+14155550123"}
	assert.NoError(t, Validate(ok))

	bad := registerPayload{Email: "a@b.com", Password: "longenough", Phone: "555-0123"}
	err := Validate(bad)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields(), "Phone")
}
