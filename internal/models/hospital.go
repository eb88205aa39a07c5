package models

import "time"

const (
	HospitalStatusActive   = "active"
	HospitalStatusInactive = "inactive"
)

// Owner is the legal owner of one or more hospitals.
type Owner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:191;uniqueIndex" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Owner) TableName() string {
	return "owners"
}

// Hospital represents a hospital/medical facility in the directory
type Hospital struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Logo            string     `gorm:"size:512" json:"logo"`
	Category        string     `gorm:"size:100" json:"category"`
	Address         string     `gorm:"type:text" json:"address"`
	Phone           string     `gorm:"size:32" json:"phone"`
	Email           string     `gorm:"size:191" json:"email"`
	EstablishedDate *time.Time `gorm:"type:date" json:"established_date"`
	Beds            int        `gorm:"default:0" json:"beds"`
	Website         string     `gorm:"size:255" json:"website"`
	Latitude        float64    `gorm:"type:double;index:idx_hospital_coords" json:"latitude"`
	Longitude       float64    `gorm:"type:double;index:idx_hospital_coords" json:"longitude"`
	OwnerID         *uint      `gorm:"index" json:"owner_id"`
	Status          string     `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Hospital model
func (Hospital) TableName() string {
	return "hospitals"
}

// HospitalOwner links hospitals to owners
type HospitalOwner struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	HospitalID uint      `gorm:"not null;uniqueIndex:idx_hospital_owner" json:"hospital_id"`
	OwnerID    uint      `gorm:"not null;uniqueIndex:idx_hospital_owner" json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (HospitalOwner) TableName() string {
	return "hospital_owners"
}

type HospitalImage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	HospitalID  uint      `gorm:"not null;index" json:"hospital_id"`
	ImageURL    string    `gorm:"size:512;not null" json:"image_url"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (HospitalImage) TableName() string {
	return "hospital_images"
}

// Department belongs to exactly one hospital
type Department struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	HospitalID       uint      `gorm:"not null;index" json:"hospital_id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	HeadOfDepartment string    `gorm:"size:255" json:"head_of_department"`
	ContactNumber    string    `gorm:"size:32" json:"contact_number"`
	Email            string    `gorm:"size:191" json:"email"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Department) TableName() string {
	return "hospital_departments"
}
