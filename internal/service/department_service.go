package service

import (
	"context"
	"strings"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"
)

type DepartmentInput struct {
	Name             *string `json:"name"`
	HeadOfDepartment *string `json:"head_of_department"`
	ContactNumber    *string `json:"contact_number"`
	Email            *string `json:"email"`
}

type DepartmentService struct {
	tx          repository.Transactor
	hospitals   repository.HospitalStore
	departments repository.DepartmentStore
}

func NewDepartmentService(tx repository.Transactor, hospitals repository.HospitalStore, departments repository.DepartmentStore) *DepartmentService {
	return &DepartmentService{tx: tx, hospitals: hospitals, departments: departments}
}

func (s *DepartmentService) ListDepartments(ctx context.Context, hospitalID uint) ([]models.Department, error) {
	if _, err := s.hospitals.GetHospitalByID(ctx, hospitalID); err != nil {
		return nil, err
	}
	departments, err := s.departments.ListDepartments(ctx, []uint{hospitalID})
	if err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []models.Department{}
	}
	return departments, nil
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, hospitalID uint, in DepartmentInput) (*models.Department, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperrors.NewValidationError("Department name is required")
	}
	if _, err := s.hospitals.GetHospitalByID(ctx, hospitalID); err != nil {
		return nil, err
	}

	department := &models.Department{
		HospitalID:       hospitalID,
		Name:             strings.TrimSpace(*in.Name),
		HeadOfDepartment: derefString(in.HeadOfDepartment),
		ContactNumber:    derefString(in.ContactNumber),
		Email:            derefString(in.Email),
	}
	if err := s.departments.CreateDepartment(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

// hospitalDepartment loads the department and hides ones that belong to another hospital
func (s *DepartmentService) hospitalDepartment(ctx context.Context, hospitalID, departmentID uint) (*models.Department, error) {
	department, err := s.departments.GetDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if department.HospitalID != hospitalID {
		return nil, apperrors.NewNotFoundError("Department not found")
	}
	return department, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, hospitalID, departmentID uint, in DepartmentInput) (*models.Department, error) {
	if _, err := s.hospitalDepartment(ctx, hospitalID, departmentID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("Department name is required")
		}
		fields["name"] = name
	}
	if in.HeadOfDepartment != nil {
		fields["head_of_department"] = *in.HeadOfDepartment
	}
	if in.ContactNumber != nil {
		fields["contact_number"] = *in.ContactNumber
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("No fields to update")
	}

	if err := s.departments.UpdateDepartment(ctx, departmentID, fields); err != nil {
		return nil, err
	}
	return s.departments.GetDepartment(ctx, departmentID)
}

func (s *DepartmentService) DeleteDepartment(ctx context.Context, hospitalID, departmentID uint) error {
	if _, err := s.hospitalDepartment(ctx, hospitalID, departmentID); err != nil {
		return err
	}
	return s.tx.InTransaction(ctx, func(tx *repository.Repositories) error {
		return tx.Departments.DeleteDepartment(ctx, departmentID)
	})
}
