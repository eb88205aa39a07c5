package repository

import (
	"context"
	"fmt"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AdvertisementStore interface {
	CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error
	ListAdvertisements(ctx context.Context, activeOnly bool) ([]models.Advertisement, error)
	GetAdvertisement(ctx context.Context, id uint) (*models.Advertisement, error)
	ToggleAdvertisement(ctx context.Context, id uint) (*models.Advertisement, error)
	DeleteAdvertisement(ctx context.Context, id uint) error
}

type AdvertisementRepository struct {
	db *gorm.DB
}

func NewAdvertisementRepo(db *gorm.DB) *AdvertisementRepository {
	return &AdvertisementRepository{db: db}
}

func (r *AdvertisementRepository) CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error {
	if err := r.db.WithContext(ctx).Create(ad).Error; err != nil {
		return fmt.Errorf("failed to create advertisement: %w", err)
	}
	return nil
}

func (r *AdvertisementRepository) ListAdvertisements(ctx context.Context, activeOnly bool) ([]models.Advertisement, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var ads []models.Advertisement
	if err := q.Find(&ads).Error; err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	return ads, nil
}

func (r *AdvertisementRepository) GetAdvertisement(ctx context.Context, id uint) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := r.db.WithContext(ctx).First(&ad, id).Error; err != nil {
		return nil, notFound(err, "Advertisement not found", "get advertisement")
	}
	return &ad, nil
}

// ToggleAdvertisement flips is_active and returns the updated row
func (r *AdvertisementRepository) ToggleAdvertisement(ctx context.Context, id uint) (*models.Advertisement, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.Advertisement{}).
		Where("id = ?", id).
		Update("is_active", gorm.Expr("NOT is_active"))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to toggle advertisement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("Advertisement not found")
	}

	var ad models.Advertisement
	if err := db.First(&ad, id).Error; err != nil {
		return nil, notFound(err, "Advertisement not found", "get advertisement")
	}
	return &ad, nil
}

func (r *AdvertisementRepository) DeleteAdvertisement(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Advertisement{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete advertisement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Advertisement not found")
	}
	return nil
}
