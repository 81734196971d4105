package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Mobile   string `json:"mobile,omitempty" validate:"omitempty,e164"`
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(signup{Username: "ali", Email: "ali@example.com", Password: "secret1"}))
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	err := Validate(signup{Username: "al", Email: "nope", Password: "123"})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	fields := ve.Fields()
	assert.Equal(t, "must be at least 3 characters", fields["username"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 6 characters", fields["password"])
	assert.Equal(t, []string{
		"email must be a valid email address",
		"password must be at least 6 characters",
		"username must be at least 3 characters",
	}, ve.Messages())
}

func TestValidate_OptionalMobile(t *testing.T) {
	err := Validate(signup{Username: "ali", Email: "ali@example.com", Password: "secret1", Mobile: "0912"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "must be a phone number in E.164 format", ve.Fields()["mobile"])
}

func TestDecodeAndValidate(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ali","email":"ali@example.com","password":"secret1"}`))
	var dst signup
	require.NoError(t, DecodeAndValidate(req, &dst))
	assert.Equal(t, "ali", dst.Username)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad json`))
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
