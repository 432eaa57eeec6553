package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNumericID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantCode int
	}{
		{"numeric id passes", "42", http.StatusOK},
		{"zero is rejected", "0", http.StatusBadRequest},
		{"negative is rejected", "-1", http.StatusBadRequest},
		{"alphabetic is rejected", "abc", http.StatusBadRequest},
		{"mixed is rejected", "12abc", http.StatusBadRequest},
		{"empty is rejected", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
			require.NoError(t, ValidateNumericID(next)(c))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusBadRequest {
				assert.JSONEq(t, `{"message":"Invalid ID format"}`, rec.Body.String())
			}
		})
	}
}
