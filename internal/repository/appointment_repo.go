package repository

import (
	"context"
	"fmt"
	"time"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/pkg/apperrors"

	"github.com/doug-martin/goqu/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dayLayout = "2006-01-02"

type AppointmentStore interface {
	CreatePatient(ctx context.Context, patient *models.Patient) error
	CountUserAppointmentsOnDay(ctx context.Context, userID uint, day time.Time) (int64, error)
	NextToken(ctx context.Context, doctorID, hospitalID uint, day time.Time) (int, error)
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error)
	CancelAppointment(ctx context.Context, id uint, reason string) (bool, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	ListUserAppointments(ctx context.Context, filter UserAppointmentFilter) ([]AppointmentView, error)
	GetUserAppointment(ctx context.Context, id, userID uint) (*AppointmentView, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]AppointmentView, int64, error)
}

// AppointmentView is an appointment joined with its patient, doctor and hospital names
type AppointmentView struct {
	ID                 uint       `json:"id"`
	AppointmentDate    time.Time  `json:"appointment_date"`
	Status             string     `json:"status"`
	Notes              string     `json:"notes"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
	Token              int        `json:"token"`
	CreatedAt          time.Time  `json:"created_at"`
	DoctorID           uint       `json:"doctor_id"`
	DoctorName         string     `json:"doctor_name"`
	Specialization     string     `json:"specialization"`
	HospitalID         uint       `json:"hospital_id"`
	HospitalName       string     `json:"hospital_name"`
	PatientID          uint       `json:"patient_id"`
	PatientName        string     `json:"patient_name"`
	PatientPhone       string     `json:"patient_phone"`
	PatientEmail       string     `json:"patient_email"`
	PatientGender      string     `json:"patient_gender"`
	PatientDateOfBirth *time.Time `json:"patient_date_of_birth"`
	PatientAddress     string     `json:"patient_address"`
	CreatedByUserID    uint       `json:"-"`
}

// UserAppointmentFilter scopes appointments to the patients a user created
type UserAppointmentFilter struct {
	UserID    uint
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}

// AppointmentFilter is used by doctor and hospital staff listings
type AppointmentFilter struct {
	HospitalID uint
	DoctorID   uint
	Page       int
	Limit      int
}

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) CreatePatient(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

// CountUserAppointmentsOnDay counts every appointment booked by the user for that calendar day.
// It is a locking read so it sees the latest committed rows inside a booking transaction.
func (r *AppointmentRepository) CountUserAppointmentsOnDay(ctx context.Context, userID uint, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Joins("INNER JOIN patients ON patients.id = appointments.patient_id").
		Where("patients.created_by_user_id = ? AND appointments.appointment_day = ?", userID, day.Format(dayLayout)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

// NextToken is MAX(token)+1 for the doctor, hospital and day. Cancelled rows still count.
// Like the quota count it reads with FOR UPDATE rather than from the transaction snapshot.
func (r *AppointmentRepository) NextToken(ctx context.Context, doctorID, hospitalID uint, day time.Time) (int, error) {
	var maxToken int
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("COALESCE(MAX(token), 0)").
		Where("doctor_id = ? AND hospital_id = ? AND appointment_day = ?", doctorID, hospitalID, day.Format(dayLayout)).
		Row().
		Scan(&maxToken)
	if err != nil {
		return 0, fmt.Errorf("failed to compute token: %w", err)
	}
	return maxToken + 1, nil
}

func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.WithContext(ctx).Preload("Patient").First(&appointment, id).Error; err != nil {
		return nil, notFound(err, "Appointment not found.", "get appointment")
	}
	return &appointment, nil
}

// CancelAppointment flips a non-cancelled appointment to cancelled.
// It reports false when the row was already cancelled by the time the update ran.
func (r *AppointmentRepository) CancelAppointment(ctx context.Context, id uint, reason string) (bool, error) {
	fields := map[string]interface{}{"status": models.AppointmentStatusCancelled}
	if reason != "" {
		fields["cancel_reason"] = reason
	}
	result := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status <> ?", id, models.AppointmentStatusCancelled).
		Updates(fields)
	if result.Error != nil {
		return false, fmt.Errorf("failed to cancel appointment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateStatus sets any status unconditionally
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update appointment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Appointment not found.")
	}
	return nil
}

func (r *AppointmentRepository) ListUserAppointments(ctx context.Context, filter UserAppointmentFilter) ([]AppointmentView, error) {
	query, args, err := BuildUserAppointmentsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build appointment query: %w", err)
	}
	var rows []AppointmentView
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return rows, nil
}

// GetUserAppointment only returns the appointment if the user booked it
func (r *AppointmentRepository) GetUserAppointment(ctx context.Context, id, userID uint) (*AppointmentView, error) {
	query, args, err := toSQL(appointmentViewBase().Where(
		goqu.I("a.id").Eq(id),
		goqu.I("p.created_by_user_id").Eq(userID),
	).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build appointment query: %w", err)
	}
	var rows []AppointmentView
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError("Appointment not found.")
	}
	return &rows[0], nil
}

func (r *AppointmentRepository) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]AppointmentView, int64, error) {
	listSQL, listArgs, err := BuildAppointmentListQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build appointment query: %w", err)
	}
	countSQL, countArgs, err := toSQL(appointmentFilterWhere(dialect.From(goqu.T("appointments").As("a")), filter).
		Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build appointment count: %w", err)
	}

	var rows []AppointmentView
	if err := r.db.WithContext(ctx).Raw(listSQL, listArgs...).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	var total int64
	if err := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return rows, total, nil
}

func appointmentViewBase() *goqu.SelectDataset {
	return dialect.From(goqu.T("appointments").As("a")).
		Select(
			goqu.I("a.id"),
			goqu.I("a.appointment_date"),
			goqu.I("a.status"),
			goqu.I("a.notes"),
			goqu.I("a.cancel_reason"),
			goqu.I("a.token"),
			goqu.I("a.created_at"),
			goqu.I("a.doctor_id"),
			goqu.L("COALESCE(d.name, '')").As("doctor_name"),
			goqu.L("COALESCE(d.specialization, '')").As("specialization"),
			goqu.I("a.hospital_id"),
			goqu.L("COALESCE(h.name, '')").As("hospital_name"),
			goqu.I("a.patient_id"),
			goqu.I("p.name").As("patient_name"),
			goqu.I("p.phone").As("patient_phone"),
			goqu.I("p.email").As("patient_email"),
			goqu.I("p.gender").As("patient_gender"),
			goqu.I("p.date_of_birth").As("patient_date_of_birth"),
			goqu.I("p.address").As("patient_address"),
			goqu.I("p.created_by_user_id"),
		).
		InnerJoin(goqu.T("patients").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("a.patient_id")))).
		LeftJoin(goqu.T("doctors").As("d"), goqu.On(goqu.I("d.id").Eq(goqu.I("a.doctor_id")))).
		LeftJoin(goqu.T("hospitals").As("h"), goqu.On(goqu.I("h.id").Eq(goqu.I("a.hospital_id"))))
}

// BuildUserAppointmentsQuery renders the caller's bookings with optional day range and status
func BuildUserAppointmentsQuery(filter UserAppointmentFilter) (string, []interface{}, error) {
	ds := appointmentViewBase().Where(goqu.I("p.created_by_user_id").Eq(filter.UserID))
	if filter.StartDate != nil {
		ds = ds.Where(goqu.I("a.appointment_day").Gte(filter.StartDate.Format(dayLayout)))
	}
	if filter.EndDate != nil {
		ds = ds.Where(goqu.I("a.appointment_day").Lte(filter.EndDate.Format(dayLayout)))
	}
	if filter.Status != "" {
		ds = ds.Where(goqu.I("a.status").Eq(filter.Status))
	}
	return toSQL(ds.Order(goqu.I("a.appointment_date").Desc(), goqu.I("a.id").Desc()))
}

func appointmentFilterWhere(ds *goqu.SelectDataset, filter AppointmentFilter) *goqu.SelectDataset {
	if filter.HospitalID != 0 {
		ds = ds.Where(goqu.I("a.hospital_id").Eq(filter.HospitalID))
	}
	if filter.DoctorID != 0 {
		ds = ds.Where(goqu.I("a.doctor_id").Eq(filter.DoctorID))
	}
	return ds
}

// BuildAppointmentListQuery renders one page of appointments for staff, newest date first
func BuildAppointmentListQuery(filter AppointmentFilter) (string, []interface{}, error) {
	ds := appointmentFilterWhere(appointmentViewBase(), filter).
		Order(goqu.I("a.appointment_date").Desc(), goqu.I("a.id").Desc()).
		Limit(uint(filter.Limit)).
		Offset(offsetFor(filter.Page, filter.Limit))
	return toSQL(ds)
}
