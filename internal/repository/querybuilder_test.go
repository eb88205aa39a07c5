package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// every bound value must line up with exactly one placeholder
func assertPlaceholders(t *testing.T, sql string, args []interface{}) {
	t.Helper()
	assert.Equal(t, strings.Count(sql, "?"), len(args), "placeholders vs args in %s", sql)
}

func TestBuildNearbyQuery(t *testing.T) {
	sql, args, err := BuildNearbyQuery(NearbyQuery{
		Latitude:  12.97,
		Longitude: 77.59,
		RadiusKm:  10,
		Page:      3,
		Limit:     10,
	})
	require.NoError(t, err)

	assertPlaceholders(t, sql, args)
	assert.Contains(t, sql, "FROM `hospitals` AS `h`")
	assert.Contains(t, sql, "ACOS(LEAST(1, GREATEST(-1,")
	assert.Contains(t, sql, "GROUP BY `h`.`id`")
	assert.Contains(t, sql, "`distance` <= ?")
	assert.Contains(t, sql, "ORDER BY `distance` ASC, `h`.`id` ASC")
	assert.NotContains(t, sql, "LIKE BINARY")

	// distance expression: lat, lon, radius of earth, lat, lon, lat
	require.GreaterOrEqual(t, len(args), 7)
	assert.EqualValues(t, 12.97, args[0])
	assert.EqualValues(t, 77.59, args[1])
	assert.EqualValues(t, 6371, args[2])
	assert.EqualValues(t, 12.97, args[3])
	assert.EqualValues(t, 77.59, args[4])
	assert.EqualValues(t, 12.97, args[5])
	assert.EqualValues(t, 10, args[6])
	// page 3 of 10 starts at offset 20
	assert.EqualValues(t, 20, args[len(args)-1])
}

func TestBuildNearbyQueryZeroRadius(t *testing.T) {
	q := NearbyQuery{Latitude: 12.9716, Longitude: 77.5946, RadiusKm: 0, Page: 1, Limit: 10}

	sql, args, err := BuildNearbyQuery(q)
	require.NoError(t, err)
	assertPlaceholders(t, sql, args)
	assert.Contains(t, sql, "CASE WHEN h.latitude = ? AND h.longitude = ? THEN 0 ELSE")
	assert.Contains(t, sql, "`distance` <= ?")
	// the exact-match short-circuit binds the query point first
	require.GreaterOrEqual(t, len(args), 7)
	assert.EqualValues(t, 12.9716, args[0])
	assert.EqualValues(t, 77.5946, args[1])
	assert.EqualValues(t, 0, args[6])

	countSQL, countArgs, err := BuildNearbyCountQuery(q)
	require.NoError(t, err)
	assertPlaceholders(t, countSQL, countArgs)
	assert.Contains(t, countSQL, "CASE WHEN h.latitude = ? AND h.longitude = ? THEN 0 ELSE")
	assert.EqualValues(t, 12.9716, countArgs[0])
	assert.EqualValues(t, 77.5946, countArgs[1])
	assert.EqualValues(t, 0, countArgs[6])
}

func TestBuildNearbyQueryDepartmentFilter(t *testing.T) {
	sql, args, err := BuildNearbyQuery(NearbyQuery{Latitude: 1, Longitude: 2, RadiusKm: 5, Department: "Cardio", Page: 1, Limit: 10})
	require.NoError(t, err)

	assertPlaceholders(t, sql, args)
	assert.Contains(t, sql, "department_names LIKE BINARY ?")
	assert.Contains(t, args, "%Cardio%")

	radiusIdx, deptIdx := -1, -1
	for i, a := range args {
		if a == "%Cardio%" {
			deptIdx = i
		}
		if f, ok := a.(float64); ok && f == 5 {
			radiusIdx = i
		}
	}
	assert.Less(t, radiusIdx, deptIdx, "radius predicate is rendered before the department predicate")
}

func TestBuildNearbyCountQueryMatchesFilter(t *testing.T) {
	q := NearbyQuery{Latitude: 1, Longitude: 2, RadiusKm: 5, Department: "Ortho", Page: 4, Limit: 25}
	sql, args, err := BuildNearbyCountQuery(q)
	require.NoError(t, err)

	assertPlaceholders(t, sql, args)
	assert.True(t, strings.HasPrefix(sql, "SELECT COUNT(*) FROM (SELECT"))
	assert.Contains(t, sql, "department_names LIKE BINARY ?")
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
}

func TestBuildDoctorListQuery(t *testing.T) {
	sql, args, err := BuildDoctorListQuery(DoctorFilter{HospitalID: 2, DepartmentID: 7, Name: "  SMI ", Page: 2, Limit: 5})
	require.NoError(t, err)

	assertPlaceholders(t, sql, args)
	assert.Contains(t, sql, "INNER JOIN `doctor_hospitals` AS `dh`")
	assert.Contains(t, sql, "LEFT JOIN `hospital_departments` AS `hd`")
	assert.Contains(t, sql, "MIN(`hd`.`name`) AS `department_name`")
	assert.Contains(t, sql, "GROUP BY `d`.`id`")
	assert.Contains(t, sql, "LOWER(d.name) LIKE ?")
	assert.Contains(t, args, "%smi%")
	assert.EqualValues(t, 2, args[0])
	assert.EqualValues(t, 7, args[1])
	assert.EqualValues(t, 5, args[len(args)-1])
}

func TestBuildDoctorCountQueryWithoutOptionalFilters(t *testing.T) {
	sql, args, err := BuildDoctorCountQuery(DoctorFilter{HospitalID: 9, Page: 1, Limit: 10})
	require.NoError(t, err)

	assertPlaceholders(t, sql, args)
	assert.Contains(t, sql, "COUNT(DISTINCT `d`.`id`)")
	assert.NotContains(t, sql, "LIKE")
	require.Len(t, args, 1)
	assert.EqualValues(t, 9, args[0])
}

func TestBuildUserAppointmentsQuery(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	sql, args, err := BuildUserAppointmentsQuery(UserAppointmentFilter{
		UserID:    4,
		StartDate: &start,
		EndDate:   &end,
		Status:    "pending",
	})
	require.NoError(t, err)

	assertPlaceholders(t, sql, args)
	assert.Contains(t, sql, "ORDER BY `a`.`appointment_date` DESC")
	assert.Equal(t, []interface{}{"2024-03-01", "2024-03-31", "pending"}, args[1:])
	assert.EqualValues(t, 4, args[0])
}

func TestBuildAppointmentListQuery(t *testing.T) {
	sql, args, err := BuildAppointmentListQuery(AppointmentFilter{DoctorID: 5, Page: 1, Limit: 10})
	require.NoError(t, err)

	assertPlaceholders(t, sql, args)
	assert.Contains(t, sql, "`a`.`doctor_id` = ?")
	assert.NotContains(t, sql, "`a`.`hospital_id` = ?")
}
