package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"hambax/entity"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Auth  bool    `json:"auth"`
	Token *string `json:"token"`
}

func (s Server) PostRegister(c echo.Context) error {
	var request credentialsRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.Email == "" || request.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	err := s.authService.Register(c.Request().Context(), request.Email, request.Password)
	if errors.Is(err, entity.ErrConflict) {
		return c.JSON(http.StatusConflict, map[string]string{"message": "Email already registered."})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Registered. Please check your email to verify your account.",
	})
}

func (s Server) PostLogin(c echo.Context) error {
	var request credentialsRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	token, err := s.authService.Login(c.Request().Context(), request.Email, request.Password)
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"message": "No user found."})
	case errors.Is(err, entity.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, loginResponse{Auth: false, Token: nil})
	case errors.Is(err, entity.ErrNotVerified):
		return c.JSON(http.StatusForbidden, map[string]string{
			"message": "Please verify your email before logging in.",
		})
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Auth: true, Token: &token})
}

func (s Server) GetVerify(c echo.Context) error {
	err := s.authService.Verify(c.Request().Context(), c.Param("token"))
	if errors.Is(err, entity.ErrInvalidToken) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired verification link")
	}
	if errors.Is(err, entity.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return err
	}

	return c.String(http.StatusOK, "Email verified. You can now log in.")
}
