// Package handler contains the HTTP handlers for the application.
package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"roster/internal/delivery/http/response"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/usecase"
	"roster/internal/util"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// signupRequest mirrors the JSON body the signup form submits.
type signupRequest struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`

	Phone          string `json:"phone"`
	ClinicName     string `json:"clinicName"`
	Specialization string `json:"specialization"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// signupResponse carries the identifier of the newly created account.
// No credential material is ever echoed back.
type signupResponse struct {
	ID uint `json:"id"`
}

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// Signup handles the account registration request.
func (h *AccountHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}
	if err := c.Validate(&req); err != nil {
		// The service re-checks presence; this is just the fast path with
		// the same caller-facing error.
		return domainerrors.ErrValidationFailed.WrapMessage("signup request validation failed")
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Phone,
		ClinicName:      req.ClinicName,
		Specialization:  req.Specialization,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, signupResponse{ID: output.User.ID}, "Signup successful")
}

// Login handles the credential verification request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("login request validation failed")
	}

	if _, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return errors.WithStack(err)
	}

	// No session or token is issued; success carries only the message.
	return response.Success(c, http.StatusOK, nil, "Login successful")
}

// DownloadUsers streams the full account roster as a CSV attachment.
func (h *AccountHandler) DownloadUsers(c echo.Context) error {
	// Buffer the export so a mid-export failure still yields a clean error
	// response instead of a truncated download.
	var buf bytes.Buffer
	if err := h.uc.ExportCSV(c.Request().Context(), &buf); err != nil {
		return errors.WithStack(err)
	}

	h.logger.Debug("Prepared roster export", slog.String("size", util.FormatBytes(int64(buf.Len()))))

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=users.csv`)

	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
