package models

import "time"

type Doctor struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         *uint     `gorm:"index" json:"user_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Specialization string    `gorm:"size:255" json:"specialization"`
	Phone          string    `gorm:"size:32" json:"phone"`
	Email          string    `gorm:"size:191;uniqueIndex" json:"email"`
	ImageURL       string    `gorm:"size:512" json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// DoctorHospital maps a doctor to a hospital. The department reference is scoped to that hospital.
type DoctorHospital struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	DoctorID             uint      `gorm:"not null;uniqueIndex:idx_doctor_hospital" json:"doctor_id"`
	HospitalID           uint      `gorm:"not null;uniqueIndex:idx_doctor_hospital;index" json:"hospital_id"`
	HospitalDepartmentID *uint     `gorm:"index" json:"hospital_department_id"`
	CreatedAt            time.Time `json:"created_at"`
}

func (DoctorHospital) TableName() string {
	return "doctor_hospitals"
}

type DoctorDepartment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DoctorID     uint      `gorm:"not null;uniqueIndex:idx_doctor_department" json:"doctor_id"`
	DepartmentID uint      `gorm:"not null;uniqueIndex:idx_doctor_department" json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DoctorDepartment) TableName() string {
	return "doctor_departments"
}

type DoctorImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DoctorID  uint      `gorm:"not null;index" json:"doctor_id"`
	ImageURL  string    `gorm:"size:512;not null" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (DoctorImage) TableName() string {
	return "doctor_images"
}

// Weekdays in schedule order.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// IsWeekday reports whether day is one of Weekdays.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

type DoctorSchedule struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DoctorID   uint      `gorm:"not null;index" json:"doctor_id"`
	HospitalID uint      `gorm:"not null;index" json:"hospital_id"`
	DayOfWeek  string    `gorm:"size:10;not null" json:"day_of_week"`
	StartTime  string    `gorm:"type:time;not null" json:"start_time"`
	EndTime    string    `gorm:"type:time;not null" json:"end_time"`
	Notes      string    `gorm:"size:255" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DoctorSchedule) TableName() string {
	return "doctor_schedules"
}

type DoctorReview struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DoctorID  uint      `gorm:"not null;index" json:"doctor_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (DoctorReview) TableName() string {
	return "doctor_reviews"
}

// DoctorFee is the doctor's single consultation fee row
type DoctorFee struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	DoctorID        uint      `gorm:"not null;uniqueIndex" json:"doctor_id"`
	ConsultationFee float64   `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (DoctorFee) TableName() string {
	return "doctor_fees"
}
