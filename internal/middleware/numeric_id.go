package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ValidateNumericID rejects requests whose :id path parameter is not a
// positive integer before the handler runs, so handlers can parse the id
// without re-checking its shape.
func ValidateNumericID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if n, err := strconv.ParseUint(id, 10, 64); err != nil || n == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid ID format"})
		}
		return next(c)
	}
}
