package repository_test

import (
	"context"
	"testing"

	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBookingStore(t *testing.T) (*repository.Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return repository.NewStore(db), mock
}

// The booking transaction must take the user and doctor row locks before any plain read,
// and read the quota and the token with locking reads, so a booking that waited on the
// doctor lock sees the token committed by the booking ahead of it.
func TestCreateAppointmentLocksBeforeReading(t *testing.T) {
	store, mock := newBookingStore(t)
	svc := service.NewBookingService(store, store.Appointments, service.BookingRules{DailyLimit: 3})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}).AddRow(7, "user"))
	mock.ExpectQuery("SELECT \\* FROM `doctors` WHERE .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "Dr. Rao"))
	mock.ExpectQuery("SELECT \\* FROM `hospitals` WHERE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "City Care"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `appointments` INNER JOIN patients .* FOR UPDATE").
		WithArgs(7, "2024-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `patients`").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(token\\), 0\\) FROM `appointments` WHERE .* FOR UPDATE").
		WithArgs(5, 2, "2024-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `appointments`").
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectCommit()

	result, err := svc.CreateAppointment(context.Background(), 7, service.CreateAppointmentInput{
		DoctorID:        5,
		HospitalID:      2,
		AppointmentDate: "2024-03-01",
		Patient:         service.PatientInput{Name: "Asha", Phone: "555"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Token)
	assert.Equal(t, uint(41), result.AppointmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointmentQuotaRollsBack(t *testing.T) {
	store, mock := newBookingStore(t)
	svc := service.NewBookingService(store, store.Appointments, service.BookingRules{DailyLimit: 3})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT \\* FROM `doctors` WHERE .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("SELECT \\* FROM `hospitals` WHERE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `appointments` .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	_, err := svc.CreateAppointment(context.Background(), 7, service.CreateAppointmentInput{
		DoctorID:        5,
		HospitalID:      2,
		AppointmentDate: "2024-03-01",
		Patient:         service.PatientInput{Name: "Asha", Phone: "555"},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
