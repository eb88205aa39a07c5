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

// BookingRules are the operator-tunable booking policies
type BookingRules struct {
	DailyLimit               int
	EnforceOwnership         bool
	RequireDoctorAffiliation bool
}

type PatientInput struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

type CreateAppointmentInput struct {
	DoctorID        uint         `json:"doctor_id"`
	HospitalID      uint         `json:"hospital_id"`
	AppointmentDate string       `json:"appointment_date"`
	Notes           string       `json:"notes"`
	Patient         PatientInput `json:"patient"`
}

// BookingResult is the created appointment with snapshots of everything it references
type BookingResult struct {
	AppointmentID   uint             `json:"appointment_id"`
	AppointmentDate time.Time        `json:"appointment_date"`
	Token           int              `json:"token"`
	Status          string           `json:"status"`
	Patient         *models.Patient  `json:"patient"`
	Doctor          *models.Doctor   `json:"doctor"`
	Hospital        *models.Hospital `json:"hospital"`
}

type BookingService struct {
	tx           repository.Transactor
	appointments repository.AppointmentStore
	rules        BookingRules
}

func NewBookingService(tx repository.Transactor, appointments repository.AppointmentStore, rules BookingRules) *BookingService {
	if rules.DailyLimit <= 0 {
		rules.DailyLimit = 3
	}
	return &BookingService{tx: tx, appointments: appointments, rules: rules}
}

func (in *CreateAppointmentInput) validate() error {
	if in.DoctorID == 0 || in.HospitalID == 0 || strings.TrimSpace(in.AppointmentDate) == "" ||
		strings.TrimSpace(in.Patient.Name) == "" || strings.TrimSpace(in.Patient.Phone) == "" {
		return apperrors.NewValidationError("doctor_id, hospital_id, appointment_date, patient name and phone are required")
	}
	return nil
}

// CreateAppointment books a visit for the acting user. Every read and write runs in one
// transaction holding row locks on the user and the doctor, which linearizes the quota check
// and token assignment for concurrent bookings. The quota count and the token lookup are
// locking reads, so they see rows committed by bookings that held the locks before us.
func (s *BookingService) CreateAppointment(ctx context.Context, userID uint, in CreateAppointmentInput) (*BookingResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	appointmentDate, err := parseAppointmentDate(in.AppointmentDate)
	if err != nil {
		return nil, err
	}
	dob, err := parseOptionalDay(in.Patient.DateOfBirth, "date_of_birth")
	if err != nil {
		return nil, err
	}
	day := calendarDay(appointmentDate)

	var result *BookingResult
	err = s.tx.InTransaction(ctx, func(tx *repository.Repositories) error {
		// Both row locks come before any plain read so the snapshot is taken after them
		if _, err := tx.Users.LockUser(ctx, userID); err != nil {
			return err
		}
		doctor, err := tx.Doctors.LockDoctor(ctx, in.DoctorID)
		if err != nil {
			return err
		}
		hospital, err := tx.Hospitals.GetHospitalByID(ctx, in.HospitalID)
		if err != nil {
			return err
		}
		if s.rules.RequireDoctorAffiliation {
			if _, err := tx.Doctors.GetMapping(ctx, doctor.ID, hospital.ID); err != nil {
				return err
			}
		}

		count, err := tx.Appointments.CountUserAppointmentsOnDay(ctx, userID, day)
		if err != nil {
			return err
		}
		if count >= int64(s.rules.DailyLimit) {
			return apperrors.NewQuotaExceededError(
				fmt.Sprintf("You can only book up to %d appointments per day.", s.rules.DailyLimit))
		}

		patient := &models.Patient{
			Name:            strings.TrimSpace(in.Patient.Name),
			DateOfBirth:     dob,
			Gender:          in.Patient.Gender,
			Phone:           strings.TrimSpace(in.Patient.Phone),
			Email:           in.Patient.Email,
			Address:         in.Patient.Address,
			CreatedByUserID: userID,
		}
		if err := tx.Appointments.CreatePatient(ctx, patient); err != nil {
			return err
		}

		token, err := tx.Appointments.NextToken(ctx, doctor.ID, hospital.ID, day)
		if err != nil {
			return err
		}

		appointment := &models.Appointment{
			DoctorID:        doctor.ID,
			HospitalID:      hospital.ID,
			PatientID:       patient.ID,
			PatientName:     patient.Name,
			AppointmentDate: appointmentDate,
			AppointmentDay:  day,
			Status:          models.AppointmentStatusPending,
			Notes:           in.Notes,
			Token:           token,
		}
		if err := tx.Appointments.CreateAppointment(ctx, appointment); err != nil {
			return err
		}

		result = &BookingResult{
			AppointmentID:   appointment.ID,
			AppointmentDate: appointment.AppointmentDate,
			Token:           appointment.Token,
			Status:          appointment.Status,
			Patient:         patient,
			Doctor:          doctor,
			Hospital:        hospital,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("appointment_id", result.AppointmentID).
		Uint("doctor_id", in.DoctorID).
		Uint("hospital_id", in.HospitalID).
		Str("day", day.Format(dayLayout)).
		Int("token", result.Token).
		Msg("appointment booked")
	return result, nil
}

// CancelAppointment moves an appointment to cancelled exactly once. The vacated token is
// never handed out again.
func (s *BookingService) CancelAppointment(ctx context.Context, id uint, reason string, actor *Actor) error {
	appointment, err := s.appointments.GetAppointmentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(appointment, actor); err != nil {
		return err
	}
	if appointment.Status == models.AppointmentStatusCancelled {
		return apperrors.NewConflictError("Appointment already cancelled.")
	}

	changed, err := s.appointments.CancelAppointment(ctx, id, strings.TrimSpace(reason))
	if err != nil {
		return err
	}
	if !changed {
		// lost a race with another cancel
		return apperrors.NewConflictError("Appointment already cancelled.")
	}
	return nil
}

// UpdateAppointmentStatus sets any valid status. It does not enforce a state machine.
func (s *BookingService) UpdateAppointmentStatus(ctx context.Context, id uint, status string, actor *Actor) error {
	if !models.ValidAppointmentStatus(status) {
		return apperrors.NewValidationError("Invalid status value")
	}
	if s.rules.EnforceOwnership {
		if actor == nil {
			return apperrors.NewUnauthorizedError("Authentication required")
		}
		if !actor.HasRole(models.RoleAdmin, models.RoleDoctor, models.RoleHospital, models.RoleOwner) {
			return apperrors.NewForbiddenError("Insufficient permissions")
		}
	}
	return s.appointments.UpdateStatus(ctx, id, status)
}

func (s *BookingService) checkOwnership(appointment *models.Appointment, actor *Actor) error {
	if !s.rules.EnforceOwnership {
		return nil
	}
	if actor == nil {
		return apperrors.NewUnauthorizedError("Authentication required")
	}
	if actor.IsAdmin() {
		return nil
	}
	if appointment.Patient == nil || appointment.Patient.CreatedByUserID != actor.UserID {
		return apperrors.NewForbiddenError("You can only manage your own appointments")
	}
	return nil
}
