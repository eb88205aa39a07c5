package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleOwner    = "owner"
	RoleDoctor   = "doctor"
	RoleHospital = "hospital"
	RoleUser     = "user"
)

// User represents the users table.
// Email and phone are both optional but at least one is set; each is unique when present.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     *string   `gorm:"size:191;uniqueIndex" json:"email"`
	Phone     *string   `gorm:"size:32;uniqueIndex" json:"phone"`
	Role      string    `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;size:255;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// OTP holds the latest one-time code issued for an email address or phone number.
type OTP struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Identifier string    `gorm:"size:191;not null;uniqueIndex" json:"identifier"`
	CodeHash   string    `gorm:"size:255;not null" json:"-"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (OTP) TableName() string {
	return "otps"
}
