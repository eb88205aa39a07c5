package repository

import (
	"context"
	"fmt"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/pkg/apperrors"

	"gorm.io/gorm"
)

type DepartmentStore interface {
	CreateDepartment(ctx context.Context, department *models.Department) error
	GetDepartment(ctx context.Context, id uint) (*models.Department, error)
	UpdateDepartment(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteDepartment(ctx context.Context, id uint) error
	ListDepartments(ctx context.Context, hospitalIDs []uint) ([]models.Department, error)
}

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepo(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	if err := r.db.WithContext(ctx).Create(department).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, notFound(err, "Department not found", "get department")
	}
	return &department, nil
}

func (r *DepartmentRepository) UpdateDepartment(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Department{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update department: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Department not found")
	}
	return nil
}

// DeleteDepartment also clears doctor mappings that pointed at it
func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("department_id = ?", id).Delete(&models.DoctorDepartment{}).Error; err != nil {
		return fmt.Errorf("failed to delete doctor departments: %w", err)
	}
	if err := db.Model(&models.DoctorHospital{}).
		Where("hospital_department_id = ?", id).
		Update("hospital_department_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach doctors: %w", err)
	}

	result := db.Delete(&models.Department{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete department: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Department not found")
	}
	return nil
}

// ListDepartments returns departments of the given hospitals ordered by name
func (r *DepartmentRepository) ListDepartments(ctx context.Context, hospitalIDs []uint) ([]models.Department, error) {
	var departments []models.Department
	if len(hospitalIDs) == 0 {
		return departments, nil
	}
	err := r.db.WithContext(ctx).
		Where("hospital_id IN ?", hospitalIDs).
		Order("name ASC, id ASC").
		Find(&departments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}
