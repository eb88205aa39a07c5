package service

import (
	"context"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"
)

// AppointmentService answers read-side questions about bookings
type AppointmentService struct {
	appointments repository.AppointmentStore
}

func NewAppointmentService(appointments repository.AppointmentStore) *AppointmentService {
	return &AppointmentService{appointments: appointments}
}

// MyAppointmentsQuery holds the raw query-string filters
type MyAppointmentsQuery struct {
	StartDate string
	EndDate   string
	Status    string
}

// GetMyAppointments lists bookings whose patients the user created, newest first
func (s *AppointmentService) GetMyAppointments(ctx context.Context, userID uint, q MyAppointmentsQuery) ([]repository.AppointmentView, error) {
	start, err := parseOptionalDay(q.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDay(q.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, apperrors.NewValidationError("end_date must not be before start_date")
	}
	if q.Status != "" && !models.ValidAppointmentStatus(q.Status) {
		return nil, apperrors.NewValidationError("Invalid status value")
	}

	rows, err := s.appointments.ListUserAppointments(ctx, repository.UserAppointmentFilter{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Status:    q.Status,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.AppointmentView{}
	}
	return rows, nil
}

// GetAppointmentDetails returns one appointment if the user booked it
func (s *AppointmentService) GetAppointmentDetails(ctx context.Context, id, userID uint) (*repository.AppointmentView, error) {
	return s.appointments.GetUserAppointment(ctx, id, userID)
}

// ListAppointments is the doctor and hospital view, filtered by hospital and/or doctor
func (s *AppointmentService) ListAppointments(ctx context.Context, hospitalID, doctorID uint, page, limit int) ([]repository.AppointmentView, int64, error) {
	rows, total, err := s.appointments.ListAppointments(ctx, repository.AppointmentFilter{
		HospitalID: hospitalID,
		DoctorID:   doctorID,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, 0, err
	}
	if rows == nil {
		rows = []repository.AppointmentView{}
	}
	return rows, total, nil
}
