package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"
	"hospital-booking-backend/pkg/utils"

	"github.com/rs/zerolog/log"
)

const otpDigits = 6

// OTPSender delivers a one-time code to an email address or phone number
type OTPSender interface {
	Send(ctx context.Context, destination, code string) error
}

// LogOTPSender writes codes to the debug log. It stands in for a mail or SMS gateway.
type LogOTPSender struct{}

func (LogOTPSender) Send(_ context.Context, destination, code string) error {
	log.Debug().Str("destination", destination).Str("otp", code).Msg("OTP issued")
	return nil
}

type AuthService struct {
	users  repository.UserStore
	otps   repository.OTPStore
	audit  repository.AuditStore
	sender OTPSender
	otpTTL time.Duration
}

func NewAuthService(users repository.UserStore, otps repository.OTPStore, audit repository.AuditStore, sender OTPSender, otpTTL time.Duration) *AuthService {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &AuthService{
		users:  users,
		otps:   otps,
		audit:  audit,
		sender: sender,
		otpTTL: otpTTL,
	}
}

// LoginResponse represents the response structure for a verified OTP
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// identifier picks the login key; email wins when both are given
func identifier(email, phone string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	phone = strings.TrimSpace(phone)
	switch {
	case email != "":
		return email, nil
	case phone != "":
		return phone, nil
	default:
		return "", apperrors.NewValidationError("Email or phone is required")
	}
}

// RequestOTP issues a fresh code for the identifier, replacing any earlier one.
// The account is created on first request.
func (s *AuthService) RequestOTP(ctx context.Context, email, phone string) error {
	id, err := identifier(email, phone)
	if err != nil {
		return err
	}
	if _, err := s.findOrCreateUser(ctx, email, phone); err != nil {
		return err
	}

	code, err := utils.GenerateOTP(otpDigits)
	if err != nil {
		return err
	}
	hash, err := utils.HashSecret(code)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	otp := &models.OTP{
		Identifier: id,
		CodeHash:   hash,
		ExpiresAt:  time.Now().Add(s.otpTTL),
	}
	if err := s.otps.UpsertOTP(ctx, otp); err != nil {
		return err
	}

	if err := s.sender.Send(ctx, id, code); err != nil {
		return fmt.Errorf("failed to send otp: %w", err)
	}
	return nil
}

func (s *AuthService) findOrCreateUser(ctx context.Context, email, phone string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	phone = strings.TrimSpace(phone)

	user, err := s.users.FindUserByEmailOrPhone(ctx, email, phone)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	user = &models.User{Role: models.RoleUser}
	if email != "" {
		user.Email = &email
	}
	if phone != "" {
		user.Phone = &phone
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	_ = s.audit.CreateAuditLog(ctx, &user.ID, "user_registration", fmt.Sprintf("User %d registered via OTP", user.ID))
	return user, nil
}

// VerifyOTP consumes the code and returns a token pair
func (s *AuthService) VerifyOTP(ctx context.Context, email, phone, code string) (*LoginResponse, error) {
	id, err := identifier(email, phone)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.NewValidationError("OTP is required")
	}

	otp, err := s.otps.FindOTP(ctx, id)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid or expired OTP")
		}
		return nil, err
	}
	if time.Now().After(otp.ExpiresAt) || !utils.CompareSecret(otp.CodeHash, code) {
		return nil, apperrors.NewUnauthorizedError("Invalid or expired OTP")
	}
	if err := s.otps.DeleteOTP(ctx, id); err != nil {
		return nil, err
	}

	user, err := s.findOrCreateUser(ctx, email, phone)
	if err != nil {
		return nil, err
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := utils.GenerateRefreshToken()
	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}
	if err := s.users.CreateRefreshToken(ctx, refreshTokenModel); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	_ = s.audit.CreateAuditLog(ctx, &user.ID, "user_login", fmt.Sprintf("User %d logged in", user.ID))

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	token, err := s.users.FindRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken))
	if err != nil {
		return "", err
	}

	if time.Now().After(token.ExpiresAt) {
		return "", apperrors.NewUnauthorizedError("Refresh token expired")
	}

	accessToken, err := utils.GenerateAccessToken(token.User.ID, token.User.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.users.RevokeRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
