package repository

import (
	"context"
	"fmt"
	"time"

	"hospital-booking-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OTPStore interface {
	UpsertOTP(ctx context.Context, otp *models.OTP) error
	FindOTP(ctx context.Context, identifier string) (*models.OTP, error)
	DeleteOTP(ctx context.Context, identifier string) error
	DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error)
}

type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepo(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// UpsertOTP replaces any previous code for the same identifier
func (r *OTPRepository) UpsertOTP(ctx context.Context, otp *models.OTP) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identifier"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "updated_at"}),
	}).Create(otp).Error
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

func (r *OTPRepository) FindOTP(ctx context.Context, identifier string) (*models.OTP, error) {
	var otp models.OTP
	if err := r.db.WithContext(ctx).Where("identifier = ?", identifier).First(&otp).Error; err != nil {
		return nil, notFound(err, "OTP not found", "find otp")
	}
	return &otp, nil
}

func (r *OTPRepository) DeleteOTP(ctx context.Context, identifier string) error {
	return r.db.WithContext(ctx).Where("identifier = ?", identifier).Delete(&models.OTP{}).Error
}

// DeleteExpiredOTPs purges codes that expired before the given instant
func (r *OTPRepository) DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&models.OTP{})
	return result.RowsAffected, result.Error
}
