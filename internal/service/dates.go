package service

import (
	"strings"
	"time"

	"hospital-booking-backend/pkg/apperrors"
)

const dayLayout = "2006-01-02"

var appointmentLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	dayLayout,
}

// parseAppointmentDate accepts a date or a date-time. The wall clock as written by the client
// is kept and stored as UTC, so the calendar day never shifts with the caller's offset.
func parseAppointmentDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range appointmentLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, apperrors.NewValidationError("Invalid appointment_date")
}

// calendarDay truncates t to midnight UTC
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseOptionalDay parses YYYY-MM-DD; empty input yields nil
func parseOptionalDay(s, field string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid " + field + ", expected YYYY-MM-DD")
	}
	return &t, nil
}
