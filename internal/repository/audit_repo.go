package repository

import (
	"context"

	"hospital-booking-backend/internal/models"

	"gorm.io/gorm"
)

type AuditStore interface {
	CreateAuditLog(ctx context.Context, userID *uint, action string, details string) error
}

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(ctx context.Context, userID *uint, action string, details string) error {
	entry := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}
