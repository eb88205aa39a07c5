package models

import "time"

const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// ValidAppointmentStatus reports whether s is an accepted appointment status.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Patient is created fresh for every booking and tagged with the booking user.
type Patient struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	DateOfBirth     *time.Time `gorm:"type:date" json:"date_of_birth"`
	Gender          string     `gorm:"size:20" json:"gender"`
	Phone           string     `gorm:"size:32;not null" json:"phone"`
	Email           string     `gorm:"size:191" json:"email"`
	Address         string     `gorm:"type:text" json:"address"`
	CreatedByUserID uint       `gorm:"not null;index" json:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// Appointment is a booked visit. AppointmentDay is the calendar date of AppointmentDate and
// together with doctor and hospital scopes the token sequence.
type Appointment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	DoctorID        uint      `gorm:"not null;uniqueIndex:idx_appointment_token,priority:1" json:"doctor_id"`
	HospitalID      uint      `gorm:"not null;uniqueIndex:idx_appointment_token,priority:2" json:"hospital_id"`
	AppointmentDay  time.Time `gorm:"type:date;not null;uniqueIndex:idx_appointment_token,priority:3" json:"-"`
	Token           int       `gorm:"not null;uniqueIndex:idx_appointment_token,priority:4" json:"token"`
	PatientID       uint      `gorm:"not null;index" json:"patient_id"`
	PatientName     string    `gorm:"size:255" json:"patient_name"`
	AppointmentDate time.Time `gorm:"not null" json:"appointment_date"`
	Status          string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CancelReason    string    `gorm:"size:255" json:"cancel_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}
