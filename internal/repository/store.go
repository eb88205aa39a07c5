package repository

import (
	"context"
	"errors"
	"fmt"

	"hospital-booking-backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Repositories groups every store bound to the same database handle, either the pool or a
// transaction.
type Repositories struct {
	Users         UserStore
	OTPs          OTPStore
	Hospitals     HospitalStore
	Staff         StaffStore
	Departments   DepartmentStore
	Doctors       DoctorStore
	Profiles      DoctorProfileStore
	Appointments  AppointmentStore
	Favorites     FavoriteStore
	Search        SearchStore
	Advertisement AdvertisementStore
	Audit         AuditStore
}

// Transactor runs fn inside one database transaction. The transaction commits when fn returns
// nil and rolls back on error or panic.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(tx *Repositories) error) error
}

// Store owns the connection pool and hands out repositories.
type Store struct {
	db *gorm.DB
	*Repositories
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, Repositories: newRepositories(db)}
}

func newRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepo(db),
		OTPs:          NewOTPRepo(db),
		Hospitals:     NewHospitalRepo(db),
		Staff:         NewUserHospitalRepo(db),
		Departments:   NewDepartmentRepo(db),
		Doctors:       NewDoctorRepo(db),
		Profiles:      NewDoctorProfileRepo(db),
		Appointments:  NewAppointmentRepo(db),
		Favorites:     NewFavoriteRepo(db),
		Search:        NewSearchRepo(db),
		Advertisement: NewAdvertisementRepo(db),
		Audit:         NewAuditRepo(db),
	}
}

// InTransaction implements Transactor on top of gorm's managed transactions.
func (s *Store) InTransaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

// notFound converts gorm.ErrRecordNotFound into a NOT_FOUND app error and wraps anything else.
func notFound(err error, message, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(message)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
