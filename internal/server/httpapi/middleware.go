package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/tickethub/internal/server/auth"
)

// context key under which the authenticated user ID is stored.
const userIDKey = "userID"

// requireAuth extracts the bearer token, verifies it and stores the caller's
// user ID in the request context.
func (s *HTTPServer) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing token"})
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

// requireAdmin allows only callers whose account is in the admin group.
// Group membership is read per request, so a demotion takes effect
// immediately even for tokens minted before it.
func (s *HTTPServer) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := s.accounts.GetProfile(c.Request().Context(), callerID(c))
		if err != nil {
			return s.writeError(c, err)
		}
		if !user.IsAdmin() {
			return c.JSON(http.StatusForbidden, errorResponse{Error: "admin access required"})
		}
		return next(c)
	}
}

func callerID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
