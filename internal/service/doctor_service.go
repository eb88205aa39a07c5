package service

import (
	"context"
	"math"
	"regexp"
	"strings"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

type AddDoctorInput struct {
	Name           string `form:"name" json:"name"`
	Specialization string `form:"specialization" json:"specialization"`
	Phone          string `form:"phone" json:"phone"`
	Email          string `form:"email" json:"email"`
	DepartmentID   *uint  `form:"department_id" json:"department_id"`
	ImageURL       string `form:"-" json:"-"`
}

type ScheduleInput struct {
	DayOfWeek *string `json:"day_of_week"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Notes     *string `json:"notes"`
}

type DoctorListQuery struct {
	HospitalID   uint
	DepartmentID uint
	Name         string
	Page         int
	Limit        int
}

type DoctorListItem struct {
	repository.DoctorListRow
	IsFavorite *bool `json:"is_favorite,omitempty"`
}

type DoctorPage struct {
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Total   int64            `json:"total"`
	Doctors []DoctorListItem `json:"doctors"`
}

type DoctorDetail struct {
	*models.Doctor
	HospitalID      uint                    `json:"hospital_id"`
	Department      *models.Department      `json:"department"`
	Schedules       []models.DoctorSchedule `json:"schedules"`
	Reviews         []models.DoctorReview   `json:"reviews"`
	AverageRating   *float64                `json:"average_rating"`
	TotalReviews    int                     `json:"total_reviews"`
	ConsultationFee *float64                `json:"consultation_fee"`
}

type DoctorService struct {
	tx          repository.Transactor
	hospitals   repository.HospitalStore
	departments repository.DepartmentStore
	doctors     repository.DoctorStore
	profiles    repository.DoctorProfileStore
	favorites   repository.FavoriteStore
}

func NewDoctorService(
	tx repository.Transactor,
	hospitals repository.HospitalStore,
	departments repository.DepartmentStore,
	doctors repository.DoctorStore,
	profiles repository.DoctorProfileStore,
	favorites repository.FavoriteStore,
) *DoctorService {
	return &DoctorService{
		tx:          tx,
		hospitals:   hospitals,
		departments: departments,
		doctors:     doctors,
		profiles:    profiles,
		favorites:   favorites,
	}
}

// AddDoctorToHospital finds or creates the doctor's account and record and maps the doctor
// to the hospital, optionally under one of its departments
func (s *DoctorService) AddDoctorToHospital(ctx context.Context, hospitalID uint, in AddDoctorInput) (*models.Doctor, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Email == "" {
		return nil, apperrors.NewValidationError("Doctor name and email are required")
	}

	var doctor *models.Doctor
	err := s.tx.InTransaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Hospitals.GetHospitalByID(ctx, hospitalID); err != nil {
			return err
		}
		if in.DepartmentID != nil {
			department, err := tx.Departments.GetDepartment(ctx, *in.DepartmentID)
			if err != nil {
				return err
			}
			if department.HospitalID != hospitalID {
				return apperrors.NewValidationError("Department does not belong to this hospital")
			}
		}

		user, err := accountFor(ctx, tx.Users, in.Name, in.Email, in.Phone, models.RoleDoctor)
		if err != nil {
			return err
		}

		doctor, err = tx.Doctors.FindOrCreateDoctor(ctx, &models.Doctor{
			UserID:         &user.ID,
			Name:           in.Name,
			Specialization: in.Specialization,
			Phone:          in.Phone,
			Email:          in.Email,
			ImageURL:       in.ImageURL,
		})
		if err != nil {
			return err
		}

		if err := tx.Doctors.MapToHospital(ctx, doctor.ID, hospitalID, in.DepartmentID); err != nil {
			return err
		}
		if in.DepartmentID != nil {
			if err := tx.Doctors.AddDoctorDepartment(ctx, doctor.ID, *in.DepartmentID); err != nil {
				return err
			}
		}
		if in.ImageURL != "" {
			return tx.Doctors.AddDoctorImage(ctx, &models.DoctorImage{DoctorID: doctor.ID, ImageURL: in.ImageURL})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorService) RemoveDoctorFromHospital(ctx context.Context, hospitalID, doctorID uint) error {
	return s.tx.InTransaction(ctx, func(tx *repository.Repositories) error {
		return tx.Doctors.RemoveFromHospital(ctx, doctorID, hospitalID)
	})
}

// ListDoctorsForHospital returns one page of the hospital's doctors
func (s *DoctorService) ListDoctorsForHospital(ctx context.Context, q DoctorListQuery, actor *Actor) (*DoctorPage, error) {
	if _, err := s.hospitals.GetHospitalByID(ctx, q.HospitalID); err != nil {
		return nil, err
	}

	rows, total, err := s.doctors.ListDoctorsForHospital(ctx, repository.DoctorFilter{
		HospitalID:   q.HospitalID,
		DepartmentID: q.DepartmentID,
		Name:         q.Name,
		Page:         q.Page,
		Limit:        q.Limit,
	})
	if err != nil {
		return nil, err
	}

	var favorites map[uint]bool
	if actor != nil {
		ids := make([]uint, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		favorites, err = s.favorites.FavoriteDoctorIDs(ctx, actor.UserID, q.HospitalID, ids)
		if err != nil {
			return nil, err
		}
	}

	doctors := make([]DoctorListItem, 0, len(rows))
	for _, row := range rows {
		item := DoctorListItem{DoctorListRow: row}
		if favorites != nil {
			fav := favorites[row.ID]
			item.IsFavorite = &fav
		}
		doctors = append(doctors, item)
	}
	return &DoctorPage{Page: q.Page, Limit: q.Limit, Total: total, Doctors: doctors}, nil
}

// GetDoctorDetail returns the doctor's profile as seen from one hospital
func (s *DoctorService) GetDoctorDetail(ctx context.Context, hospitalID, doctorID uint) (*DoctorDetail, error) {
	mapping, err := s.doctors.GetMapping(ctx, doctorID, hospitalID)
	if err != nil {
		return nil, err
	}

	detail := &DoctorDetail{HospitalID: hospitalID}
	var fee *models.DoctorFee

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Doctor, err = s.doctors.GetDoctorByID(gctx, doctorID)
		return err
	})
	if mapping.HospitalDepartmentID != nil {
		g.Go(func() error {
			department, err := s.departments.GetDepartment(gctx, *mapping.HospitalDepartmentID)
			if err != nil {
				if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
					return nil
				}
				return err
			}
			if department.HospitalID == hospitalID {
				detail.Department = department
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		detail.Schedules, err = s.profiles.ListSchedules(gctx, doctorID, hospitalID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Reviews, err = s.profiles.ListReviews(gctx, doctorID)
		return err
	})
	g.Go(func() error {
		var err error
		fee, err = s.profiles.GetFee(gctx, doctorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if detail.Schedules == nil {
		detail.Schedules = []models.DoctorSchedule{}
	}
	if detail.Reviews == nil {
		detail.Reviews = []models.DoctorReview{}
	}
	detail.TotalReviews = len(detail.Reviews)
	detail.AverageRating = averageRating(detail.Reviews)
	if fee != nil {
		amount := fee.ConsultationFee
		detail.ConsultationFee = &amount
	}
	return detail, nil
}

// averageRating rounds to one decimal and is nil without reviews
func averageRating(reviews []models.DoctorReview) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := math.Round(float64(sum)/float64(len(reviews))*10) / 10
	return &avg
}

func (s *DoctorService) requireMapping(ctx context.Context, hospitalID, doctorID uint) error {
	_, err := s.doctors.GetMapping(ctx, doctorID, hospitalID)
	return err
}

func (s *DoctorService) ListSchedules(ctx context.Context, hospitalID, doctorID uint) ([]models.DoctorSchedule, error) {
	if err := s.requireMapping(ctx, hospitalID, doctorID); err != nil {
		return nil, err
	}
	schedules, err := s.profiles.ListSchedules(ctx, doctorID, hospitalID)
	if err != nil {
		return nil, err
	}
	if schedules == nil {
		schedules = []models.DoctorSchedule{}
	}
	return schedules, nil
}

func validateSlot(day, start, end string) error {
	if !models.IsWeekday(day) {
		return apperrors.NewValidationError("Invalid day_of_week")
	}
	if !clockPattern.MatchString(start) || !clockPattern.MatchString(end) {
		return apperrors.NewValidationError("start_time and end_time must be HH:MM or HH:MM:SS")
	}
	if normalizeClock(end) <= normalizeClock(start) {
		return apperrors.NewValidationError("end_time must be after start_time")
	}
	return nil
}

// normalizeClock pads HH:MM to HH:MM:SS so values compare as strings
func normalizeClock(t string) string {
	if len(t) == 5 {
		return t + ":00"
	}
	return t
}

func (s *DoctorService) CreateSchedule(ctx context.Context, hospitalID, doctorID uint, in ScheduleInput) (*models.DoctorSchedule, error) {
	if in.DayOfWeek == nil || in.StartTime == nil || in.EndTime == nil {
		return nil, apperrors.NewValidationError("day_of_week, start_time and end_time are required")
	}
	if err := validateSlot(*in.DayOfWeek, *in.StartTime, *in.EndTime); err != nil {
		return nil, err
	}
	if err := s.requireMapping(ctx, hospitalID, doctorID); err != nil {
		return nil, err
	}

	schedule := &models.DoctorSchedule{
		DoctorID:   doctorID,
		HospitalID: hospitalID,
		DayOfWeek:  *in.DayOfWeek,
		StartTime:  normalizeClock(*in.StartTime),
		EndTime:    normalizeClock(*in.EndTime),
		Notes:      derefString(in.Notes),
	}
	if err := s.profiles.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// doctorSchedule loads a schedule and hides ones that belong to another doctor or hospital
func (s *DoctorService) doctorSchedule(ctx context.Context, hospitalID, doctorID, scheduleID uint) (*models.DoctorSchedule, error) {
	schedule, err := s.profiles.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.DoctorID != doctorID || schedule.HospitalID != hospitalID {
		return nil, apperrors.NewNotFoundError("Schedule not found")
	}
	return schedule, nil
}

func (s *DoctorService) UpdateSchedule(ctx context.Context, hospitalID, doctorID, scheduleID uint, in ScheduleInput) (*models.DoctorSchedule, error) {
	schedule, err := s.doctorSchedule(ctx, hospitalID, doctorID, scheduleID)
	if err != nil {
		return nil, err
	}

	day, start, end := schedule.DayOfWeek, schedule.StartTime, schedule.EndTime
	if in.DayOfWeek != nil {
		day = *in.DayOfWeek
	}
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	if err := validateSlot(day, start, end); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"day_of_week": day,
		"start_time":  normalizeClock(start),
		"end_time":    normalizeClock(end),
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}
	if err := s.profiles.UpdateSchedule(ctx, scheduleID, fields); err != nil {
		return nil, err
	}
	return s.profiles.GetSchedule(ctx, scheduleID)
}

func (s *DoctorService) DeleteSchedule(ctx context.Context, hospitalID, doctorID, scheduleID uint) error {
	if _, err := s.doctorSchedule(ctx, hospitalID, doctorID, scheduleID); err != nil {
		return err
	}
	return s.profiles.DeleteSchedule(ctx, scheduleID)
}

// SetFee stores the doctor's consultation fee
func (s *DoctorService) SetFee(ctx context.Context, hospitalID, doctorID uint, fee *float64) error {
	if fee == nil || *fee < 0 {
		return apperrors.NewValidationError("consultation_fee must be a non-negative number")
	}
	if err := s.requireMapping(ctx, hospitalID, doctorID); err != nil {
		return err
	}
	return s.profiles.UpsertFee(ctx, doctorID, *fee)
}

// AddReview records a 1 to 5 star review by the acting user
func (s *DoctorService) AddReview(ctx context.Context, hospitalID, doctorID, userID uint, rating int, comment string) (*models.DoctorReview, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	if err := s.requireMapping(ctx, hospitalID, doctorID); err != nil {
		return nil, err
	}

	review := &models.DoctorReview{
		DoctorID: doctorID,
		UserID:   userID,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
	}
	if err := s.profiles.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
