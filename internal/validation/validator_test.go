package validation

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=20"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
}

func TestValidatePassesValidStruct(t *testing.T) {
	v := New()
	err := v.Validate(&signupForm{
		Email:     "a@x.com",
		Password:  "secret1",
		BirthDate: "1990-01-01",
	})
	assert.NoError(t, err)
}

func TestValidateNamesFieldsByJSONTag(t *testing.T) {
	v := New()
	err := v.Validate(&signupForm{
		Email:     "not-an-email",
		Password:  "short",
		BirthDate: "01/01/1990",
	})
	require.Error(t, err)

	var fields Errors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 6 characters", fields["password"])
	assert.Equal(t, "must be a date in YYYY-MM-DD format", fields["birth_date"])
}

func TestValidateRequiredMessage(t *testing.T) {
	v := New()
	err := v.Validate(&signupForm{})

	var fields Errors
	require.ErrorAs(t, err, &fields)
	for _, field := range []string{"email", "password", "birth_date"} {
		assert.Equal(t, "is required", fields[field])
	}
}

func TestJSONWritesFieldErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := JSON(c, Errors{"email": "is required"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"message":"Validation failure","errors":{"email":"is required"}}`, rec.Body.String())
}

func TestJSONFallsBackForUnknownErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := JSON(c, assert.AnError)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid request"}`, rec.Body.String())
}
