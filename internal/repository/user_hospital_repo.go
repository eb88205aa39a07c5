package repository

import (
	"context"

	"hospital-booking-backend/internal/models"

	"gorm.io/gorm"
)

// StaffStore tracks which staff users may manage which hospitals
type StaffStore interface {
	AssignUserToHospital(ctx context.Context, userID, hospitalID uint) error
	RemoveHospitalStaff(ctx context.Context, hospitalID uint) error
	GetUserHospitals(ctx context.Context, userID uint) ([]uint, error)
	UserHasAccessToHospital(ctx context.Context, userID, hospitalID uint) (bool, error)
}

type UserHospitalRepository struct {
	db *gorm.DB
}

func NewUserHospitalRepo(db *gorm.DB) *UserHospitalRepository {
	return &UserHospitalRepository{db: db}
}

// AssignUserToHospital assigns a user to a hospital
func (r *UserHospitalRepository) AssignUserToHospital(ctx context.Context, userID, hospitalID uint) error {
	userHospital := &models.UserHospital{
		UserID:     userID,
		HospitalID: hospitalID,
	}
	// Use FirstOrCreate to avoid duplicate entries
	return r.db.WithContext(ctx).Where("user_id = ? AND hospital_id = ?", userID, hospitalID).
		FirstOrCreate(userHospital).Error
}

// RemoveHospitalStaff drops every staff assignment of a hospital
func (r *UserHospitalRepository) RemoveHospitalStaff(ctx context.Context, hospitalID uint) error {
	return r.db.WithContext(ctx).Where("hospital_id = ?", hospitalID).
		Delete(&models.UserHospital{}).Error
}

// GetUserHospitals retrieves all hospital IDs a user has access to
func (r *UserHospitalRepository) GetUserHospitals(ctx context.Context, userID uint) ([]uint, error) {
	var hospitalIDs []uint
	err := r.db.WithContext(ctx).Model(&models.UserHospital{}).
		Where("user_id = ?", userID).
		Pluck("hospital_id", &hospitalIDs).Error
	return hospitalIDs, err
}

// UserHasAccessToHospital checks if a user has access to a specific hospital
func (r *UserHospitalRepository) UserHasAccessToHospital(ctx context.Context, userID, hospitalID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserHospital{}).
		Where("user_id = ? AND hospital_id = ?", userID, hospitalID).
		Count(&count).Error
	return count > 0, err
}
