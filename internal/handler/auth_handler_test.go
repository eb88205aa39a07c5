package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) RequestOTP(ctx context.Context, email, phone string) error {
	return m.Called(ctx, email, phone).Error(0)
}

func (m *mockAuth) VerifyOTP(ctx context.Context, email, phone, code string) (*service.LoginResponse, error) {
	args := m.Called(ctx, email, phone, code)
	res, _ := args.Get(0).(*service.LoginResponse)
	return res, args.Error(1)
}

func (m *mockAuth) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func authRouter(h *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/request-otp", h.RequestOTP)
	r.POST("/auth/verify-otp", h.VerifyOTP)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", h.Logout)
	return r
}

func TestRequestOTPValidation(t *testing.T) {
	auth := new(mockAuth)
	r := authRouter(NewAuthHandler(auth))

	auth.On("RequestOTP", mock.Anything, "", "").Return(apperrors.NewValidationError("Email or phone is required"))

	w := doJSON(r, http.MethodPost, "/auth/request-otp", OTPRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email or phone is required", decode(t, w)["error"])
}

func TestVerifyOTPSetsRefreshCookie(t *testing.T) {
	auth := new(mockAuth)
	r := authRouter(NewAuthHandler(auth))

	auth.On("VerifyOTP", mock.Anything, "a@example.com", "", "123456").Return(&service.LoginResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &models.User{ID: 1, Role: models.RoleUser},
	}, nil)

	w := doJSON(r, http.MethodPost, "/auth/verify-otp", VerifyOTPRequest{Email: "a@example.com", OTP: "123456"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), refreshCookie+"=refresh")
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "access", data["access_token"])
	assert.Equal(t, "refresh", data["refresh_token"])
}

func TestVerifyOTPRequiresCode(t *testing.T) {
	r := authRouter(NewAuthHandler(new(mockAuth)))

	w := doJSON(r, http.MethodPost, "/auth/verify-otp", VerifyOTPRequest{Email: "a@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshPrefersCookie(t *testing.T) {
	auth := new(mockAuth)
	r := authRouter(NewAuthHandler(auth))

	auth.On("RefreshAccessToken", mock.Anything, "from-cookie").Return("new-access", nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"from-body"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "from-cookie"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "new-access", data["access_token"])
	auth.AssertExpectations(t)
}

func TestRefreshWithoutToken(t *testing.T) {
	r := authRouter(NewAuthHandler(new(mockAuth)))

	w := doJSON(r, http.MethodPost, "/auth/refresh", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Refresh token not found", decode(t, w)["error"])
}

func TestLogoutRevokesBodyToken(t *testing.T) {
	auth := new(mockAuth)
	r := authRouter(NewAuthHandler(auth))

	auth.On("Logout", mock.Anything, "from-body").Return(nil)

	w := doJSON(r, http.MethodPost, "/auth/logout", RefreshRequest{RefreshToken: "from-body"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decode(t, w)["message"])
	auth.AssertExpectations(t)
}
