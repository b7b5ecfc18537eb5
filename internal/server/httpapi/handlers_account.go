package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

type profileRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type passwordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (s *HTTPServer) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid email"})
	}

	user, err := s.accounts.Register(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (s *HTTPServer) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	token, user, err := s.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, loginResponse{AccessToken: token, User: user})
}

func (s *HTTPServer) handleGetProfile(c echo.Context) error {
	user, err := s.accounts.GetProfile(c.Request().Context(), callerID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) handleUpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid email"})
	}

	user, err := s.accounts.UpdateProfile(c.Request().Context(), callerID(c), req.Email, req.FullName)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) handleUpdatePassword(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	ok, err := s.accounts.UpdatePassword(c.Request().Context(), callerID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		return s.writeError(c, err)
	}
	// the service does not say which check failed and neither do we
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "password update rejected"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "password updated"})
}

// handleForgotPassword answers identically whether or not the email is
// registered, so the endpoint cannot be used to probe for accounts.
func (s *HTTPServer) handleForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if _, err := s.accounts.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "if the account exists, a reset token has been issued"})
}

func (s *HTTPServer) handleResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := s.accounts.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "password reset"})
}

func (s *HTTPServer) handleSearchUsers(c echo.Context) error {
	result, err := s.accounts.SearchUsers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *HTTPServer) handleDeleteUser(c echo.Context) error {
	if err := s.accounts.DeleteUser(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
