package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldErr map[string]string

func (f fieldErr) Error() string             { return "fields" }
func (f fieldErr) Values() map[string]string { return f }

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "invalid input", err: NewInvalidInput(nil, "email", "bad"), want: http.StatusBadRequest},
		{name: "not found", err: NewBusiness("x", CodeNotFound), want: http.StatusNotFound},
		{name: "conflict", err: NewBusiness("x", CodeConflict), want: http.StatusConflict},
		{name: "unauthorized", err: NewBusiness("x", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "forbidden", err: NewBusiness("x", CodeForbidden), want: http.StatusForbidden},
		{name: "business internal", err: NewBusiness("x", CodeInternal), want: http.StatusInternalServerError},
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ge *Error
			require.ErrorAs(t, tt.err, &ge)
			assert.Equal(t, tt.want, ge.StatusCode())
		})
	}
}

func TestNewServer_HidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: refused")
	err := NewServer(cause)

	var ge *Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "Internal server error", ge.Msg())
	assert.Equal(t, TypeServer, ge.Type())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, ge.String(), "ERROR_TYPE_SERVER")
}

func TestNewInvalidInput(t *testing.T) {
	var ge *Error

	require.ErrorAs(t, NewInvalidInput(fieldErr{"email": "required"}), &ge)
	assert.Equal(t, map[string]string{"email": "required"}, ge.Fields())
	assert.Equal(t, "Validation error", ge.Msg())

	require.ErrorAs(t, NewInvalidInput(nil, "odd"), &ge)
	assert.Equal(t, CodeInvalidFormat, ge.Code())

	require.ErrorAs(t, NewInvalidInputMsg("Invalid email format", fieldErr{"email": "bad"}), &ge)
	assert.Equal(t, "Invalid email format", ge.Msg())
	assert.Equal(t, CodeInvalidInput, ge.Code())
	assert.Equal(t, "bad", ge.Fields()["email"])
}

func TestError_ErrorText(t *testing.T) {
	assert.Equal(t, "Account not found", NewBusiness("Account not found", CodeNotFound).Error())
	assert.Equal(t, "Logical business not meet with requirement", (&Error{errType: TypeBusiness}).Error())
	assert.Equal(t, "Validation violation", (&Error{errType: TypeValidation}).Error())
	assert.Equal(t, "Internal error", (&Error{}).Error())
}
