package http

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"gemtrader/internal/domain"
)

// pathID parses a positive int64 path parameter
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation("Invalid %s: %q", name, c.Param(name))
	}
	return id, nil
}
