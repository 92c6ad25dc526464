package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const accountIDContextKey = "accountID"

// sessionAuth validates the bearer session token and stores the account ID
// in the request context for downstream handlers.
func (s *Server) sessionAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing authorization header"})
		}
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid authorization header"})
		}

		accountID, err := s.accounts.ValidateSession(parts[1])
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
		}

		c.Set(accountIDContextKey, accountID)
		return next(c)
	}
}

func accountIDFromContext(c echo.Context) string {
	if v, ok := c.Get(accountIDContextKey).(string); ok {
		return v
	}
	return ""
}
