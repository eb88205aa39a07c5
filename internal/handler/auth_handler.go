package handler

import (
	"context"
	"net/http"

	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/apperrors"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

type AuthService interface {
	RequestOTP(ctx context.Context, email, phone string) error
	VerifyOTP(ctx context.Context, email, phone, code string) (*service.LoginResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type OTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	OTP   string `json:"otp" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RequestOTP sends a login code to the email address or phone number
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.RequestOTP(c.Request.Context(), req.Email, req.Phone); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.MessageResponse(c, "OTP sent successfully")
}

// VerifyOTP exchanges a valid code for an access token and a refresh token
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.VerifyOTP(c.Request.Context(), req.Email, req.Phone, req.OTP)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	// HttpOnly cookie for browsers; mobile clients use the body
	c.SetCookie(refreshCookie, response.RefreshToken, int(utils.GetRefreshTokenExpiry().Seconds()), "/", "", false, true)

	utils.SuccessResponse(c, gin.H{
		"access_token":  response.AccessToken,
		"refresh_token": response.RefreshToken,
		"user":          response.User,
	})
}

// refreshToken reads the cookie first and falls back to the JSON body
func refreshToken(c *gin.Context) string {
	if token, err := c.Cookie(refreshCookie); err == nil && token != "" {
		return token
	}
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

// Refresh generates a new access token from refresh token
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := refreshToken(c)
	if token == "" {
		utils.HandleError(c, apperrors.NewUnauthorizedError("Refresh token not found"))
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), token)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"access_token": accessToken,
	})
}

// Logout revokes the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	token := refreshToken(c)
	if token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			utils.HandleError(c, err)
			return
		}
	}

	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
	utils.MessageResponse(c, "Logged out successfully")
}
