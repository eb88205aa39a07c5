package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hospital-booking-backend/internal/models"

	"gorm.io/gorm"
)

type FavoriteStore interface {
	ToggleDoctor(ctx context.Context, userID, doctorID, hospitalID uint) (bool, error)
	ToggleHospital(ctx context.Context, userID, hospitalID uint) (bool, error)
	FavoriteHospitalIDs(ctx context.Context, userID uint, hospitalIDs []uint) (map[uint]bool, error)
	FavoriteDoctorIDs(ctx context.Context, userID, hospitalID uint, doctorIDs []uint) (map[uint]bool, error)
	ListFavoriteDoctors(ctx context.Context, userID uint) ([]FavoriteDoctorView, error)
	ListFavoriteHospitals(ctx context.Context, userID uint) ([]FavoriteHospitalView, error)
}

type FavoriteDoctorView struct {
	DoctorID       uint      `json:"doctor_id"`
	HospitalID     uint      `json:"hospital_id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	ImageURL       string    `json:"image_url"`
	HospitalName   string    `json:"hospital_name"`
	CreatedAt      time.Time `json:"created_at"`
}

type FavoriteHospitalView struct {
	HospitalID uint      `json:"hospital_id"`
	Name       string    `json:"name"`
	Logo       string    `json:"logo"`
	Address    string    `json:"address"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
}

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// ToggleDoctor removes the favorite if present, otherwise adds it.
// Returns the membership after the call.
func (r *FavoriteRepository) ToggleDoctor(ctx context.Context, userID, doctorID, hospitalID uint) (bool, error) {
	db := r.db.WithContext(ctx)
	var existing models.FavoriteDoctor
	err := db.Where("user_id = ? AND doctor_id = ? AND hospital_id = ?", userID, doctorID, hospitalID).
		First(&existing).Error
	switch {
	case err == nil:
		if err := db.Delete(&existing).Error; err != nil {
			return false, fmt.Errorf("failed to remove favorite doctor: %w", err)
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav := &models.FavoriteDoctor{UserID: userID, DoctorID: doctorID, HospitalID: hospitalID}
		if err := db.Create(fav).Error; err != nil {
			return false, fmt.Errorf("failed to add favorite doctor: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to find favorite doctor: %w", err)
	}
}

func (r *FavoriteRepository) ToggleHospital(ctx context.Context, userID, hospitalID uint) (bool, error) {
	db := r.db.WithContext(ctx)
	var existing models.FavoriteHospital
	err := db.Where("user_id = ? AND hospital_id = ?", userID, hospitalID).First(&existing).Error
	switch {
	case err == nil:
		if err := db.Delete(&existing).Error; err != nil {
			return false, fmt.Errorf("failed to remove favorite hospital: %w", err)
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav := &models.FavoriteHospital{UserID: userID, HospitalID: hospitalID}
		if err := db.Create(fav).Error; err != nil {
			return false, fmt.Errorf("failed to add favorite hospital: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to find favorite hospital: %w", err)
	}
}

// FavoriteHospitalIDs reports which of hospitalIDs the user has favorited
func (r *FavoriteRepository) FavoriteHospitalIDs(ctx context.Context, userID uint, hospitalIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if len(hospitalIDs) == 0 {
		return set, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.FavoriteHospital{}).
		Where("user_id = ? AND hospital_id IN ?", userID, hospitalIDs).
		Pluck("hospital_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite hospitals: %w", err)
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// FavoriteDoctorIDs reports which doctors the user has favorited at the given hospital
func (r *FavoriteRepository) FavoriteDoctorIDs(ctx context.Context, userID, hospitalID uint, doctorIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if len(doctorIDs) == 0 {
		return set, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.FavoriteDoctor{}).
		Where("user_id = ? AND hospital_id = ? AND doctor_id IN ?", userID, hospitalID, doctorIDs).
		Pluck("doctor_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite doctors: %w", err)
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *FavoriteRepository) ListFavoriteDoctors(ctx context.Context, userID uint) ([]FavoriteDoctorView, error) {
	var rows []FavoriteDoctorView
	err := r.db.WithContext(ctx).
		Table("favorite_doctors AS f").
		Select("f.doctor_id, f.hospital_id, d.name, d.specialization, d.image_url, h.name AS hospital_name, f.created_at").
		Joins("INNER JOIN doctors d ON d.id = f.doctor_id").
		Joins("INNER JOIN hospitals h ON h.id = f.hospital_id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC, f.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite doctors: %w", err)
	}
	return rows, nil
}

func (r *FavoriteRepository) ListFavoriteHospitals(ctx context.Context, userID uint) ([]FavoriteHospitalView, error) {
	var rows []FavoriteHospitalView
	err := r.db.WithContext(ctx).
		Table("favorite_hospitals AS f").
		Select("f.hospital_id, h.name, h.logo, h.address, h.category, f.created_at").
		Joins("INNER JOIN hospitals h ON h.id = f.hospital_id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC, f.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite hospitals: %w", err)
	}
	return rows, nil
}
