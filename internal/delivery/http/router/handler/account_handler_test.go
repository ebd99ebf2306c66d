package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roster/internal/delivery/http/middleware"
	"roster/internal/delivery/http/response"
	"roster/internal/delivery/http/validator"
	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	mockUsecase "roster/internal/mocks/usecase"
	"roster/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestEcho mirrors the production server setup the handlers depend on:
// the request validator and the central error handler.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	return e
}

func newTestAccountHandler(t *testing.T) (*AccountHandler, *mockUsecase.MockAccountUsecase) {
	uc := mockUsecase.NewMockAccountUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAccountHandler(uc, logger), uc
}

func performRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestAccountHandler_Signup_Created(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	e := newTestEcho()
	e.POST("/signup", h.Signup)

	uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Run(func(ctx context.Context, input *usecase.RegisterInput) {
			assert.Equal(t, "Ada", input.FirstName)
			assert.Equal(t, "ada@example.com", input.Email)
		}).
		Return(&usecase.RegisterOutput{User: &entity.User{ID: 42, Email: "ada@example.com"}}, nil)

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"pw123","confirmPassword":"pw123"}`
	rec := performRequest(e, http.MethodPost, "/signup", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Signup successful", resp.Message)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(42), data["id"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAccountHandler_Signup_MissingField(t *testing.T) {
	h, _ := newTestAccountHandler(t)
	e := newTestEcho()
	e.POST("/signup", h.Signup)

	body := `{"firstName":"Ada","email":"ada@example.com","password":"pw123","confirmPassword":"pw123"}`
	rec := performRequest(e, http.MethodPost, "/signup", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Equal(t, "all fields are required", resp.Message)
}

func TestAccountHandler_Signup_PasswordMismatch(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	e := newTestEcho()
	e.POST("/signup", h.Signup)

	uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.ErrPasswordMismatch)

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"pw123","confirmPassword":"pw999"}`
	rec := performRequest(e, http.MethodPost, "/signup", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PASSWORD_MISMATCH", resp.Error.Code)
	assert.Equal(t, "passwords do not match", resp.Message)
}

func TestAccountHandler_Signup_DuplicateEmail(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	e := newTestEcho()
	e.POST("/signup", h.Signup)

	uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.ErrEmailExists)

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"pw123","confirmPassword":"pw123"}`
	rec := performRequest(e, http.MethodPost, "/signup", body)

	require.Equal(t, http.StatusConflict, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMAIL_EXISTS", resp.Error.Code)
	assert.Equal(t, "email already exists", resp.Message)
}

func TestAccountHandler_Signup_InvalidJSON(t *testing.T) {
	h, _ := newTestAccountHandler(t)
	e := newTestEcho()
	e.POST("/signup", h.Signup)

	rec := performRequest(e, http.MethodPost, "/signup", `{"firstName":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestAccountHandler_Login_Success(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	e := newTestEcho()
	e.POST("/login", h.Login)

	uc.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{Email: "ada@example.com", Password: "pw123"}).
		Return(&usecase.LoginOutput{User: &entity.User{ID: 42}}, nil)

	rec := performRequest(e, http.MethodPost, "/login", `{"email":"ada@example.com","password":"pw123"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	e := newTestEcho()
	e.POST("/login", h.Login)

	uc.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, domainerrors.ErrInvalidCredentials)

	rec := performRequest(e, http.MethodPost, "/login", `{"email":"ghost@example.com","password":"nope"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	assert.Equal(t, "invalid email or password", resp.Message)
}

func TestAccountHandler_Login_MissingField(t *testing.T) {
	h, _ := newTestAccountHandler(t)
	e := newTestEcho()
	e.POST("/login", h.Login)

	rec := performRequest(e, http.MethodPost, "/login", `{"email":"ada@example.com"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}

func TestAccountHandler_DownloadUsers(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	e := newTestEcho()
	e.GET("/download-users", h.DownloadUsers)

	uc.EXPECT().
		ExportCSV(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, w io.Writer) {
			_, _ = w.Write([]byte("id,first_name,last_name,email\n1,Ada,Lovelace,ada@example.com\n"))
		}).
		Return(nil)

	rec := performRequest(e, http.MethodGet, "/download-users", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename=users.csv`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
	assert.Equal(t, "id,first_name,last_name,email\n1,Ada,Lovelace,ada@example.com\n", rec.Body.String())
}

func TestAccountHandler_DownloadUsers_ExportFailure(t *testing.T) {
	h, uc := newTestAccountHandler(t)
	e := newTestEcho()
	e.GET("/download-users", h.DownloadUsers)

	uc.EXPECT().
		ExportCSV(mock.Anything, mock.Anything).
		Return(domainerrors.NewDatabaseExecuteError(errors.New("connection refused"), "failed to list users"))

	rec := performRequest(e, http.MethodGet, "/download-users", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHealthCheck(t *testing.T) {
	e := newTestEcho()
	e.GET("/health", HealthCheck)

	rec := performRequest(e, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}
