package repository

import (
	"context"
	"errors"
	"fmt"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/pkg/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DoctorProfileStore covers schedules, reviews and fees
type DoctorProfileStore interface {
	CreateSchedule(ctx context.Context, schedule *models.DoctorSchedule) error
	GetSchedule(ctx context.Context, id uint) (*models.DoctorSchedule, error)
	UpdateSchedule(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteSchedule(ctx context.Context, id uint) error
	ListSchedules(ctx context.Context, doctorID, hospitalID uint) ([]models.DoctorSchedule, error)
	CreateReview(ctx context.Context, review *models.DoctorReview) error
	ListReviews(ctx context.Context, doctorID uint) ([]models.DoctorReview, error)
	UpsertFee(ctx context.Context, doctorID uint, fee float64) error
	GetFee(ctx context.Context, doctorID uint) (*models.DoctorFee, error)
}

// scheduleOrder sorts Sunday first, then by start time
const scheduleOrder = "FIELD(day_of_week, 'Sunday', 'Monday', 'Tuesday', 'Wednesday', 'Thursday', 'Friday', 'Saturday'), start_time ASC"

type DoctorProfileRepository struct {
	db *gorm.DB
}

func NewDoctorProfileRepo(db *gorm.DB) *DoctorProfileRepository {
	return &DoctorProfileRepository{db: db}
}

func (r *DoctorProfileRepository) CreateSchedule(ctx context.Context, schedule *models.DoctorSchedule) error {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *DoctorProfileRepository) GetSchedule(ctx context.Context, id uint) (*models.DoctorSchedule, error) {
	var schedule models.DoctorSchedule
	if err := r.db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		return nil, notFound(err, "Schedule not found", "get schedule")
	}
	return &schedule, nil
}

func (r *DoctorProfileRepository) UpdateSchedule(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.DoctorSchedule{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Schedule not found")
	}
	return nil
}

func (r *DoctorProfileRepository) DeleteSchedule(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.DoctorSchedule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Schedule not found")
	}
	return nil
}

// ListSchedules returns the weekly schedule of a doctor at one hospital
func (r *DoctorProfileRepository) ListSchedules(ctx context.Context, doctorID, hospitalID uint) ([]models.DoctorSchedule, error) {
	var schedules []models.DoctorSchedule
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND hospital_id = ?", doctorID, hospitalID).
		Order(scheduleOrder).
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (r *DoctorProfileRepository) CreateReview(ctx context.Context, review *models.DoctorReview) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListReviews returns reviews newest first
func (r *DoctorProfileRepository) ListReviews(ctx context.Context, doctorID uint) ([]models.DoctorReview, error) {
	var reviews []models.DoctorReview
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *DoctorProfileRepository) UpsertFee(ctx context.Context, doctorID uint, fee float64) error {
	row := models.DoctorFee{DoctorID: doctorID, ConsultationFee: fee}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"consultation_fee", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save fee: %w", err)
	}
	return nil
}

// GetFee returns nil without error when the doctor has no fee row
func (r *DoctorProfileRepository) GetFee(ctx context.Context, doctorID uint) (*models.DoctorFee, error) {
	var fee models.DoctorFee
	err := r.db.WithContext(ctx).Where("doctor_id = ?", doctorID).First(&fee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fee: %w", err)
	}
	return &fee, nil
}
