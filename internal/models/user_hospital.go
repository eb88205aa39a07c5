package models

import "time"

// UserHospital grants a staff user (owner or hospital role) management access to a hospital
type UserHospital struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_hospital" json:"user_id"`
	HospitalID uint      `gorm:"not null;uniqueIndex:idx_user_hospital;index" json:"hospital_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for UserHospital model
func (UserHospital) TableName() string {
	return "user_hospitals"
}
