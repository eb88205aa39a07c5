package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"

	"github.com/rs/zerolog/log"
)

type OwnerInput struct {
	Name    string `form:"owner_name" json:"owner_name"`
	Email   string `form:"owner_email" json:"owner_email"`
	Phone   string `form:"owner_phone" json:"owner_phone"`
	Address string `form:"owner_address" json:"owner_address"`
}

type CreateHospitalInput struct {
	Name            string   `form:"name" json:"name"`
	Category        string   `form:"category" json:"category"`
	Address         string   `form:"address" json:"address"`
	Phone           string   `form:"phone" json:"phone"`
	Email           string   `form:"email" json:"email"`
	EstablishedDate string   `form:"established_date" json:"established_date"`
	Beds            int      `form:"beds" json:"beds"`
	Website         string   `form:"website" json:"website"`
	Latitude        *float64 `form:"latitude" json:"latitude"`
	Longitude       *float64 `form:"longitude" json:"longitude"`
	Owner           OwnerInput
	LogoURL         string       `form:"-" json:"-"`
	Images          []ImageInput `form:"-" json:"-"`
}

type ImageInput struct {
	ImageURL    string
	Description string
}

// UpdateHospitalInput carries a partial update; nil fields are left alone
type UpdateHospitalInput struct {
	Name            *string  `json:"name"`
	Category        *string  `json:"category"`
	Address         *string  `json:"address"`
	Phone           *string  `json:"phone"`
	Email           *string  `json:"email"`
	EstablishedDate *string  `json:"established_date"`
	Beds            *int     `json:"beds"`
	Website         *string  `json:"website"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Status          *string  `json:"status"`
	Logo            *string  `json:"logo"`
}

type HospitalView struct {
	*models.Hospital
	Images      []ImageView         `json:"images"`
	Departments []models.Department `json:"departments"`
}

type HospitalPage struct {
	Page      int               `json:"page"`
	Limit     int               `json:"limit"`
	Total     int64             `json:"total"`
	Hospitals []models.Hospital `json:"hospitals"`
}

type HospitalService struct {
	tx          repository.Transactor
	hospitals   repository.HospitalStore
	departments repository.DepartmentStore
	staff       repository.StaffStore
	audit       repository.AuditStore
}

func NewHospitalService(
	tx repository.Transactor,
	hospitals repository.HospitalStore,
	departments repository.DepartmentStore,
	staff repository.StaffStore,
	audit repository.AuditStore,
) *HospitalService {
	return &HospitalService{
		tx:          tx,
		hospitals:   hospitals,
		departments: departments,
		staff:       staff,
		audit:       audit,
	}
}

func parseEstablishedDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid established_date, expected YYYY-MM-DD")
	}
	return &t, nil
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// CreateHospital registers a hospital with its owner. The owner's user account, owner record,
// hospital row, owner link, staff membership and images are written in one transaction.
func (s *HospitalService) CreateHospital(ctx context.Context, actor *Actor, in CreateHospitalInput) (*models.Hospital, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Owner.Email = strings.TrimSpace(strings.ToLower(in.Owner.Email))
	in.Owner.Phone = strings.TrimSpace(in.Owner.Phone)
	if in.Name == "" || in.Latitude == nil || in.Longitude == nil {
		return nil, apperrors.NewValidationError("name, latitude and longitude are required")
	}
	if !validCoordinates(*in.Latitude, *in.Longitude) {
		return nil, apperrors.NewValidationError("latitude or longitude out of range")
	}
	if strings.TrimSpace(in.Owner.Name) == "" || in.Owner.Email == "" {
		return nil, apperrors.NewValidationError("owner_name and owner_email are required")
	}
	established, err := parseEstablishedDate(in.EstablishedDate)
	if err != nil {
		return nil, err
	}

	hospital := &models.Hospital{
		Name:            in.Name,
		Logo:            in.LogoURL,
		Category:        in.Category,
		Address:         in.Address,
		Phone:           in.Phone,
		Email:           in.Email,
		EstablishedDate: established,
		Beds:            in.Beds,
		Website:         in.Website,
		Latitude:        *in.Latitude,
		Longitude:       *in.Longitude,
		Status:          models.HospitalStatusActive,
	}

	err = s.tx.InTransaction(ctx, func(tx *repository.Repositories) error {
		user, err := accountFor(ctx, tx.Users, in.Owner.Name, in.Owner.Email, in.Owner.Phone, models.RoleOwner)
		if err != nil {
			return err
		}

		owner, err := tx.Hospitals.FindOrCreateOwner(ctx, &models.Owner{
			UserID:  &user.ID,
			Name:    strings.TrimSpace(in.Owner.Name),
			Email:   in.Owner.Email,
			Phone:   in.Owner.Phone,
			Address: in.Owner.Address,
		})
		if err != nil {
			return err
		}

		hospital.OwnerID = &owner.ID
		if err := tx.Hospitals.CreateHospital(ctx, hospital); err != nil {
			return err
		}
		if err := tx.Hospitals.LinkOwner(ctx, hospital.ID, owner.ID); err != nil {
			return err
		}
		if err := tx.Staff.AssignUserToHospital(ctx, user.ID, hospital.ID); err != nil {
			return err
		}
		return tx.Hospitals.AddImages(ctx, hospitalImages(hospital.ID, in.Images))
	})
	if err != nil {
		return nil, err
	}

	_ = s.audit.CreateAuditLog(ctx, actorID(actor), "hospital_create",
		fmt.Sprintf("Created hospital: %s (ID: %d)", hospital.Name, hospital.ID))
	log.Info().Uint("hospital_id", hospital.ID).Uint("owner_id", *hospital.OwnerID).Msg("hospital created")

	return hospital, nil
}

// accountFor finds a user by email or phone and creates it with role when missing.
// A plain user account is promoted to role.
func accountFor(ctx context.Context, users repository.UserStore, name, email, phone, role string) (*models.User, error) {
	user, err := users.FindUserByEmailOrPhone(ctx, email, phone)
	if err == nil {
		if user.Role == models.RoleUser && role != models.RoleUser {
			if err := users.UpdateUser(ctx, user.ID, map[string]interface{}{"role": role}); err != nil {
				return nil, err
			}
			user.Role = role
		}
		return user, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	user = &models.User{Name: strings.TrimSpace(name), Role: role}
	if email != "" {
		user.Email = &email
	}
	if phone != "" {
		user.Phone = &phone
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func hospitalImages(hospitalID uint, in []ImageInput) []models.HospitalImage {
	images := make([]models.HospitalImage, 0, len(in))
	for _, img := range in {
		images = append(images, models.HospitalImage{
			HospitalID:  hospitalID,
			ImageURL:    img.ImageURL,
			Description: img.Description,
		})
	}
	return images
}

func actorID(a *Actor) *uint {
	if a == nil {
		return nil
	}
	id := a.UserID
	return &id
}

func (s *HospitalService) ListHospitals(ctx context.Context, page, limit int) (*HospitalPage, error) {
	hospitals, total, err := s.hospitals.ListHospitals(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if hospitals == nil {
		hospitals = []models.Hospital{}
	}
	return &HospitalPage{Page: page, Limit: limit, Total: total, Hospitals: hospitals}, nil
}

// GetHospital returns the hospital with images and departments
func (s *HospitalService) GetHospital(ctx context.Context, id uint) (*HospitalView, error) {
	hospital, err := s.hospitals.GetHospitalByID(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := s.hospitals.ListImages(ctx, []uint{id})
	if err != nil {
		return nil, err
	}
	departments, err := s.departments.ListDepartments(ctx, []uint{id})
	if err != nil {
		return nil, err
	}

	view := &HospitalView{Hospital: hospital, Images: make([]ImageView, 0, len(images)), Departments: departments}
	for _, img := range images {
		view.Images = append(view.Images, ImageView{ImageURL: img.ImageURL, Description: img.Description})
	}
	if view.Departments == nil {
		view.Departments = []models.Department{}
	}
	return view, nil
}

// UpdateHospital applies the non-nil fields of in
func (s *HospitalService) UpdateHospital(ctx context.Context, actor *Actor, id uint, in UpdateHospitalInput) (*models.Hospital, error) {
	existing, err := s.hospitals.GetHospitalByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	setString("category", in.Category)
	setString("address", in.Address)
	setString("phone", in.Phone)
	setString("email", in.Email)
	setString("website", in.Website)
	setString("logo", in.Logo)
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperrors.NewValidationError("name must not be empty")
		}
		setString("name", in.Name)
	}
	if in.Beds != nil {
		if *in.Beds < 0 {
			return nil, apperrors.NewValidationError("beds must not be negative")
		}
		fields["beds"] = *in.Beds
	}
	if in.Status != nil {
		if *in.Status != models.HospitalStatusActive && *in.Status != models.HospitalStatusInactive {
			return nil, apperrors.NewValidationError("Invalid status value")
		}
		fields["status"] = *in.Status
	}
	if in.EstablishedDate != nil {
		established, err := parseEstablishedDate(*in.EstablishedDate)
		if err != nil {
			return nil, err
		}
		fields["established_date"] = established
	}
	lat, lon := existing.Latitude, existing.Longitude
	if in.Latitude != nil {
		lat = *in.Latitude
		fields["latitude"] = lat
	}
	if in.Longitude != nil {
		lon = *in.Longitude
		fields["longitude"] = lon
	}
	if !validCoordinates(lat, lon) {
		return nil, apperrors.NewValidationError("latitude or longitude out of range")
	}

	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("No fields to update")
	}
	if err := s.hospitals.UpdateHospital(ctx, id, fields); err != nil {
		return nil, err
	}

	_ = s.audit.CreateAuditLog(ctx, actorID(actor), "hospital_update",
		fmt.Sprintf("Updated hospital: %s (ID: %d)", existing.Name, id))

	return s.hospitals.GetHospitalByID(ctx, id)
}

// DeleteHospital removes the hospital with its staff memberships and dependent rows
func (s *HospitalService) DeleteHospital(ctx context.Context, actor *Actor, id uint) error {
	hospital, err := s.hospitals.GetHospitalByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.InTransaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Staff.RemoveHospitalStaff(ctx, id); err != nil {
			return err
		}
		return tx.Hospitals.DeleteHospital(ctx, id)
	})
	if err != nil {
		return err
	}

	_ = s.audit.CreateAuditLog(ctx, actorID(actor), "hospital_delete",
		fmt.Sprintf("Deleted hospital: %s (ID: %d)", hospital.Name, id))
	return nil
}

func (s *HospitalService) ListOwnerHospitals(ctx context.Context, ownerID uint) ([]models.Hospital, error) {
	hospitals, err := s.hospitals.ListHospitalsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if hospitals == nil {
		hospitals = []models.Hospital{}
	}
	return hospitals, nil
}

// AddImages attaches a batch of uploaded images; either all rows are stored or none
func (s *HospitalService) AddImages(ctx context.Context, hospitalID uint, images []ImageInput) ([]models.HospitalImage, error) {
	if len(images) == 0 {
		return nil, apperrors.NewValidationError("At least one image is required")
	}
	rows := hospitalImages(hospitalID, images)
	err := s.tx.InTransaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Hospitals.GetHospitalByID(ctx, hospitalID); err != nil {
			return err
		}
		return tx.Hospitals.AddImages(ctx, rows)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CheckUserHospitalAccess checks if a user may manage a hospital
func (s *HospitalService) CheckUserHospitalAccess(ctx context.Context, actor *Actor, hospitalID uint) error {
	if actor == nil {
		return apperrors.NewUnauthorizedError("Authentication required")
	}
	if actor.IsAdmin() {
		return nil
	}

	hasAccess, err := s.staff.UserHasAccessToHospital(ctx, actor.UserID, hospitalID)
	if err != nil {
		return err
	}
	if !hasAccess {
		return apperrors.NewForbiddenError("Access denied: you don't have permission to access this hospital")
	}
	return nil
}
