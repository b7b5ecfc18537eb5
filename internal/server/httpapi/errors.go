package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/tickethub/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto HTTP status codes. Anything outside
// the known taxonomy is logged and answered with a generic 500 so internal
// detail never reaches the client.
func (s *HTTPServer) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		return c.JSON(http.StatusConflict, errorResponse{Error: "already exists"})
	case errors.Is(err, common.ErrorValidation):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrResetTokenExpired):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "reset token expired"})
	case errors.Is(err, common.ErrorUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrorForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden"})
	default:
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
