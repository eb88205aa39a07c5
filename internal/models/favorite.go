package models

import "time"

// FavoriteDoctor is keyed by (user, doctor, hospital): a doctor is favorited at a given hospital.
type FavoriteDoctor struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_favorite_doctor" json:"user_id"`
	DoctorID   uint      `gorm:"not null;uniqueIndex:idx_favorite_doctor" json:"doctor_id"`
	HospitalID uint      `gorm:"not null;uniqueIndex:idx_favorite_doctor" json:"hospital_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (FavoriteDoctor) TableName() string {
	return "favorite_doctors"
}

type FavoriteHospital struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_favorite_hospital" json:"user_id"`
	HospitalID uint      `gorm:"not null;uniqueIndex:idx_favorite_hospital" json:"hospital_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (FavoriteHospital) TableName() string {
	return "favorite_hospitals"
}
