package repository

import (
	"context"
	"fmt"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/pkg/apperrors"

	"gorm.io/gorm"
)

type HospitalStore interface {
	GetHospitalByID(ctx context.Context, id uint) (*models.Hospital, error)
	ListHospitals(ctx context.Context, page, limit int) ([]models.Hospital, int64, error)
	ListHospitalsByOwner(ctx context.Context, ownerID uint) ([]models.Hospital, error)
	CreateHospital(ctx context.Context, hospital *models.Hospital) error
	UpdateHospital(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteHospital(ctx context.Context, id uint) error
	FindOrCreateOwner(ctx context.Context, owner *models.Owner) (*models.Owner, error)
	LinkOwner(ctx context.Context, hospitalID, ownerID uint) error
	AddImages(ctx context.Context, images []models.HospitalImage) error
	ListImages(ctx context.Context, hospitalIDs []uint) ([]models.HospitalImage, error)
}

type HospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepo(db *gorm.DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

// GetHospitalByID retrieves a hospital by ID
func (r *HospitalRepository) GetHospitalByID(ctx context.Context, id uint) (*models.Hospital, error) {
	var hospital models.Hospital
	if err := r.db.WithContext(ctx).First(&hospital, id).Error; err != nil {
		return nil, notFound(err, "Hospital not found", "get hospital")
	}
	return &hospital, nil
}

// ListHospitals returns one page of hospitals, newest first, with the total count
func (r *HospitalRepository) ListHospitals(ctx context.Context, page, limit int) ([]models.Hospital, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Hospital{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count hospitals: %w", err)
	}

	var hospitals []models.Hospital
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(int(offsetFor(page, limit))).
		Find(&hospitals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, total, nil
}

// ListHospitalsByOwner joins through hospital_owners
func (r *HospitalRepository) ListHospitalsByOwner(ctx context.Context, ownerID uint) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	err := r.db.WithContext(ctx).
		Joins("INNER JOIN hospital_owners ON hospital_owners.hospital_id = hospitals.id").
		Where("hospital_owners.owner_id = ?", ownerID).
		Order("hospitals.name ASC").
		Find(&hospitals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list owner hospitals: %w", err)
	}
	return hospitals, nil
}

func (r *HospitalRepository) CreateHospital(ctx context.Context, hospital *models.Hospital) error {
	if err := r.db.WithContext(ctx).Create(hospital).Error; err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

// UpdateHospital applies a partial update of the given columns
func (r *HospitalRepository) UpdateHospital(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Hospital{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update hospital: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Hospital not found")
	}
	return nil
}

// DeleteHospital removes the hospital and the rows that only make sense with it.
// Appointments and patients are kept as booking history.
func (r *HospitalRepository) DeleteHospital(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	dependents := []interface{}{
		&models.HospitalImage{},
		&models.HospitalOwner{},
		&models.DoctorHospital{},
		&models.DoctorSchedule{},
		&models.FavoriteHospital{},
		&models.FavoriteDoctor{},
	}
	for _, model := range dependents {
		if err := db.Where("hospital_id = ?", id).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to delete hospital dependents: %w", err)
		}
	}
	if err := db.Where("department_id IN (?)",
		db.Model(&models.Department{}).Select("id").Where("hospital_id = ?", id),
	).Delete(&models.DoctorDepartment{}).Error; err != nil {
		return fmt.Errorf("failed to delete doctor departments: %w", err)
	}
	if err := db.Where("hospital_id = ?", id).Delete(&models.Department{}).Error; err != nil {
		return fmt.Errorf("failed to delete departments: %w", err)
	}

	result := db.Delete(&models.Hospital{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete hospital: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Hospital not found")
	}
	return nil
}

// FindOrCreateOwner matches an existing owner by email
func (r *HospitalRepository) FindOrCreateOwner(ctx context.Context, owner *models.Owner) (*models.Owner, error) {
	var existing models.Owner
	err := r.db.WithContext(ctx).
		Where(models.Owner{Email: owner.Email}).
		Attrs(models.Owner{UserID: owner.UserID, Name: owner.Name, Phone: owner.Phone, Address: owner.Address}).
		FirstOrCreate(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find or create owner: %w", err)
	}
	return &existing, nil
}

func (r *HospitalRepository) LinkOwner(ctx context.Context, hospitalID, ownerID uint) error {
	link := &models.HospitalOwner{HospitalID: hospitalID, OwnerID: ownerID}
	err := r.db.WithContext(ctx).
		Where("hospital_id = ? AND owner_id = ?", hospitalID, ownerID).
		FirstOrCreate(link).Error
	if err != nil {
		return fmt.Errorf("failed to link owner: %w", err)
	}
	return nil
}

// AddImages inserts the images in one batch statement
func (r *HospitalRepository) AddImages(ctx context.Context, images []models.HospitalImage) error {
	if len(images) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&images).Error; err != nil {
		return fmt.Errorf("failed to insert hospital images: %w", err)
	}
	return nil
}

func (r *HospitalRepository) ListImages(ctx context.Context, hospitalIDs []uint) ([]models.HospitalImage, error) {
	var images []models.HospitalImage
	if len(hospitalIDs) == 0 {
		return images, nil
	}
	err := r.db.WithContext(ctx).
		Where("hospital_id IN ?", hospitalIDs).
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hospital images: %w", err)
	}
	return images, nil
}
