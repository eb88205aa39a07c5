package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"
)

var errInjected = errors.New("injected store failure")

type memState struct {
	nextID        uint
	users         map[uint]models.User
	refreshTokens map[string]models.RefreshToken
	otps          map[string]models.OTP
	hospitals     map[uint]models.Hospital
	owners        map[uint]models.Owner
	ownerLinks    map[[2]uint]bool
	staff         map[[2]uint]bool
	images        []models.HospitalImage
	departments   map[uint]models.Department
	doctors       map[uint]models.Doctor
	mappings      map[[2]uint]models.DoctorHospital
	doctorDepts   map[[2]uint]bool
	doctorImages  []models.DoctorImage
	schedules     map[uint]models.DoctorSchedule
	reviews       []models.DoctorReview
	fees          map[uint]float64
	patients      map[uint]models.Patient
	appointments  map[uint]models.Appointment
	favDoctors    map[[3]uint]bool
	favHospitals  map[[2]uint]bool
	nearby        []repository.NearbyRow
	audit         []string
}

func newMemState() memState {
	return memState{
		users:         map[uint]models.User{},
		refreshTokens: map[string]models.RefreshToken{},
		otps:          map[string]models.OTP{},
		hospitals:     map[uint]models.Hospital{},
		owners:        map[uint]models.Owner{},
		ownerLinks:    map[[2]uint]bool{},
		staff:         map[[2]uint]bool{},
		departments:   map[uint]models.Department{},
		doctors:       map[uint]models.Doctor{},
		mappings:      map[[2]uint]models.DoctorHospital{},
		doctorDepts:   map[[2]uint]bool{},
		schedules:     map[uint]models.DoctorSchedule{},
		fees:          map[uint]float64{},
		patients:      map[uint]models.Patient{},
		appointments:  map[uint]models.Appointment{},
		favDoctors:    map[[3]uint]bool{},
		favHospitals:  map[[2]uint]bool{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s memState) clone() memState {
	c := s
	c.users = copyMap(s.users)
	c.refreshTokens = copyMap(s.refreshTokens)
	c.otps = copyMap(s.otps)
	c.hospitals = copyMap(s.hospitals)
	c.owners = copyMap(s.owners)
	c.ownerLinks = copyMap(s.ownerLinks)
	c.staff = copyMap(s.staff)
	c.images = append([]models.HospitalImage(nil), s.images...)
	c.departments = copyMap(s.departments)
	c.doctors = copyMap(s.doctors)
	c.mappings = copyMap(s.mappings)
	c.doctorDepts = copyMap(s.doctorDepts)
	c.doctorImages = append([]models.DoctorImage(nil), s.doctorImages...)
	c.schedules = copyMap(s.schedules)
	c.reviews = append([]models.DoctorReview(nil), s.reviews...)
	c.fees = copyMap(s.fees)
	c.patients = copyMap(s.patients)
	c.appointments = copyMap(s.appointments)
	c.favDoctors = copyMap(s.favDoctors)
	c.favHospitals = copyMap(s.favHospitals)
	c.nearby = append([]repository.NearbyRow(nil), s.nearby...)
	c.audit = append([]string(nil), s.audit...)
	return c
}

// memStore is an in-memory stand-in for every repository. Methods a test does not need are
// left to the embedded nil interfaces and panic if called.
type memStore struct {
	repository.UserStore
	repository.OTPStore
	repository.HospitalStore
	repository.StaffStore
	repository.DepartmentStore
	repository.DoctorStore
	repository.DoctorProfileStore
	repository.AppointmentStore
	repository.FavoriteStore
	repository.SearchStore
	repository.AdvertisementStore
	repository.AuditStore

	txMu  sync.Mutex
	mu    sync.Mutex
	state memState
	fail  map[string]error

	lastNearby repository.NearbyQuery
}

func newMemStore() *memStore {
	return &memStore{state: newMemState(), fail: map[string]error{}}
}

func (m *memStore) repos() *repository.Repositories {
	return &repository.Repositories{
		Users:         m,
		OTPs:          m,
		Hospitals:     m,
		Staff:         m,
		Departments:   m,
		Doctors:       m,
		Profiles:      m,
		Appointments:  m,
		Favorites:     m,
		Search:        m,
		Advertisement: m,
		Audit:         m,
	}
}

// InTransaction serializes transactions and restores the snapshot when fn fails
func (m *memStore) InTransaction(_ context.Context, fn func(tx *repository.Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.state.clone()
	m.mu.Unlock()

	if err := fn(m.repos()); err != nil {
		m.mu.Lock()
		m.state = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) id() uint {
	m.state.nextID++
	return m.state.nextID
}

func (m *memStore) injected(op string) error {
	return m.fail[op]
}

// seed helpers, used before any concurrent access

func (m *memStore) addUser(role string) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.state.users[id] = models.User{ID: id, Role: role}
	return id
}

func (m *memStore) addHospital(h models.Hospital) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == 0 {
		h.ID = m.id()
	}
	m.state.hospitals[h.ID] = h
	return h.ID
}

func (m *memStore) addDoctor(d models.Doctor) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == 0 {
		d.ID = m.id()
	}
	m.state.doctors[d.ID] = d
	return d.ID
}

func (m *memStore) addDepartment(d models.Department) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == 0 {
		d.ID = m.id()
	}
	m.state.departments[d.ID] = d
	return d.ID
}

func (m *memStore) mapDoctor(doctorID, hospitalID uint, departmentID *uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.mappings[[2]uint{doctorID, hospitalID}] = models.DoctorHospital{
		DoctorID: doctorID, HospitalID: hospitalID, HospitalDepartmentID: departmentID,
	}
}

// UserStore

func (m *memStore) FindUserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.state.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("User not found")
	}
	return &u, nil
}

func (m *memStore) LockUser(ctx context.Context, id uint) (*models.User, error) {
	return m.FindUserByID(ctx, id)
}

func (m *memStore) FindUserByEmailOrPhone(_ context.Context, email, phone string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint, 0, len(m.state.users))
	for id := range m.state.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		u := m.state.users[id]
		if (email != "" && u.Email != nil && *u.Email == email) || (phone != "" && u.Phone != nil && *u.Phone == phone) {
			return &u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("User not found")
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("CreateUser"); err != nil {
		return err
	}
	user.ID = m.id()
	m.state.users[user.ID] = *user
	return nil
}

func (m *memStore) UpdateUser(_ context.Context, id uint, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.state.users[id]
	if !ok {
		return apperrors.NewNotFoundError("User not found")
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "role":
			u.Role = v.(string)
		case "email":
			if v == nil {
				u.Email = nil
			} else {
				s := v.(string)
				u.Email = &s
			}
		case "phone":
			if v == nil {
				u.Phone = nil
			} else {
				s := v.(string)
				u.Phone = &s
			}
		}
	}
	m.state.users[id] = u
	return nil
}

func (m *memStore) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token.ID = m.id()
	m.state.refreshTokens[token.TokenHash] = *token
	return nil
}

func (m *memStore) FindRefreshTokenByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.state.refreshTokens[hash]
	if !ok || t.Revoked {
		return nil, apperrors.NewUnauthorizedError("Invalid or revoked refresh token")
	}
	t.User = m.state.users[t.UserID]
	return &t, nil
}

func (m *memStore) RevokeRefreshTokenByHash(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.state.refreshTokens[hash]; ok {
		t.Revoked = true
		m.state.refreshTokens[hash] = t
	}
	return nil
}

// OTPStore

func (m *memStore) UpsertOTP(_ context.Context, otp *models.OTP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.otps[otp.Identifier] = *otp
	return nil
}

func (m *memStore) FindOTP(_ context.Context, identifier string) (*models.OTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.state.otps[identifier]
	if !ok {
		return nil, apperrors.NewNotFoundError("OTP not found")
	}
	return &o, nil
}

func (m *memStore) DeleteOTP(_ context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.otps, identifier)
	return nil
}

func (m *memStore) DeleteExpiredOTPs(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, o := range m.state.otps {
		if o.ExpiresAt.Before(before) {
			delete(m.state.otps, k)
			n++
		}
	}
	return n, nil
}

// HospitalStore

func (m *memStore) GetHospitalByID(_ context.Context, id uint) (*models.Hospital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.state.hospitals[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Hospital not found")
	}
	return &h, nil
}

func (m *memStore) CreateHospital(_ context.Context, hospital *models.Hospital) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("CreateHospital"); err != nil {
		return err
	}
	hospital.ID = m.id()
	m.state.hospitals[hospital.ID] = *hospital
	return nil
}

func (m *memStore) DeleteHospital(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.hospitals[id]; !ok {
		return apperrors.NewNotFoundError("Hospital not found")
	}
	delete(m.state.hospitals, id)
	return nil
}

func (m *memStore) FindOrCreateOwner(_ context.Context, owner *models.Owner) (*models.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.state.owners {
		if o.Email == owner.Email {
			return &o, nil
		}
	}
	o := *owner
	o.ID = m.id()
	m.state.owners[o.ID] = o
	return &o, nil
}

func (m *memStore) LinkOwner(_ context.Context, hospitalID, ownerID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.ownerLinks[[2]uint{hospitalID, ownerID}] = true
	return nil
}

func (m *memStore) AddImages(_ context.Context, images []models.HospitalImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("AddImages"); err != nil {
		return err
	}
	for i := range images {
		images[i].ID = m.id()
		m.state.images = append(m.state.images, images[i])
	}
	return nil
}

func (m *memStore) ListImages(_ context.Context, hospitalIDs []uint) ([]models.HospitalImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HospitalImage
	for _, img := range m.state.images {
		for _, id := range hospitalIDs {
			if img.HospitalID == id {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

// StaffStore

func (m *memStore) AssignUserToHospital(_ context.Context, userID, hospitalID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.staff[[2]uint{userID, hospitalID}] = true
	return nil
}

func (m *memStore) RemoveHospitalStaff(_ context.Context, hospitalID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.state.staff {
		if k[1] == hospitalID {
			delete(m.state.staff, k)
		}
	}
	return nil
}

func (m *memStore) UserHasAccessToHospital(_ context.Context, userID, hospitalID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.staff[[2]uint{userID, hospitalID}], nil
}

// DepartmentStore

func (m *memStore) CreateDepartment(_ context.Context, d *models.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = m.id()
	m.state.departments[d.ID] = *d
	return nil
}

func (m *memStore) GetDepartment(_ context.Context, id uint) (*models.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.state.departments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Department not found")
	}
	return &d, nil
}

func (m *memStore) DeleteDepartment(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.departments, id)
	return nil
}

func (m *memStore) ListDepartments(_ context.Context, hospitalIDs []uint) ([]models.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Department
	for _, d := range m.state.departments {
		for _, id := range hospitalIDs {
			if d.HospitalID == id {
				out = append(out, d)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DoctorStore

func (m *memStore) GetDoctorByID(_ context.Context, id uint) (*models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.state.doctors[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Doctor not found")
	}
	return &d, nil
}

func (m *memStore) LockDoctor(ctx context.Context, id uint) (*models.Doctor, error) {
	return m.GetDoctorByID(ctx, id)
}

func (m *memStore) FindOrCreateDoctor(_ context.Context, doctor *models.Doctor) (*models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.state.doctors {
		if d.Email == doctor.Email {
			return &d, nil
		}
	}
	d := *doctor
	d.ID = m.id()
	m.state.doctors[d.ID] = d
	return &d, nil
}

func (m *memStore) MapToHospital(_ context.Context, doctorID, hospitalID uint, departmentID *uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.mappings[[2]uint{doctorID, hospitalID}] = models.DoctorHospital{
		DoctorID: doctorID, HospitalID: hospitalID, HospitalDepartmentID: departmentID,
	}
	return nil
}

func (m *memStore) AddDoctorDepartment(_ context.Context, doctorID, departmentID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.doctorDepts[[2]uint{doctorID, departmentID}] = true
	return nil
}

func (m *memStore) AddDoctorImage(_ context.Context, image *models.DoctorImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("AddDoctorImage"); err != nil {
		return err
	}
	m.state.doctorImages = append(m.state.doctorImages, *image)
	return nil
}

func (m *memStore) RemoveFromHospital(_ context.Context, doctorID, hospitalID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{doctorID, hospitalID}
	if _, ok := m.state.mappings[key]; !ok {
		return apperrors.NewNotFoundError("Doctor not found in this hospital")
	}
	delete(m.state.mappings, key)
	return nil
}

func (m *memStore) GetMapping(_ context.Context, doctorID, hospitalID uint) (*models.DoctorHospital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mapping, ok := m.state.mappings[[2]uint{doctorID, hospitalID}]
	if !ok {
		return nil, apperrors.NewNotFoundError("Doctor not found in this hospital")
	}
	return &mapping, nil
}

func (m *memStore) ListHospitalDoctors(_ context.Context, hospitalID uint) ([]repository.HospitalDoctorRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []repository.HospitalDoctorRow
	for key, mapping := range m.state.mappings {
		if key[1] != hospitalID {
			continue
		}
		d := m.state.doctors[key[0]]
		rows = append(rows, repository.HospitalDoctorRow{
			DoctorID:             d.ID,
			Name:                 d.Name,
			HospitalDepartmentID: mapping.HospitalDepartmentID,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func (m *memStore) ListDoctorsForHospital(_ context.Context, f repository.DoctorFilter) ([]repository.DoctorListRow, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []repository.DoctorListRow
	for key := range m.state.mappings {
		if key[1] != f.HospitalID {
			continue
		}
		d := m.state.doctors[key[0]]
		if f.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Name)) {
			continue
		}
		rows = append(rows, repository.DoctorListRow{ID: d.ID, Name: d.Name})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, int64(len(rows)), nil
}

// DoctorProfileStore

func (m *memStore) CreateSchedule(_ context.Context, schedule *models.DoctorSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	schedule.ID = m.id()
	m.state.schedules[schedule.ID] = *schedule
	return nil
}

func (m *memStore) GetSchedule(_ context.Context, id uint) (*models.DoctorSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.state.schedules[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Schedule not found")
	}
	return &s, nil
}

func (m *memStore) ListSchedules(_ context.Context, doctorID, hospitalID uint) ([]models.DoctorSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DoctorSchedule
	for _, s := range m.state.schedules {
		if s.DoctorID == doctorID && s.HospitalID == hospitalID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) CreateReview(_ context.Context, review *models.DoctorReview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	review.ID = m.id()
	m.state.reviews = append(m.state.reviews, *review)
	return nil
}

func (m *memStore) ListReviews(_ context.Context, doctorID uint) ([]models.DoctorReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DoctorReview
	for i := len(m.state.reviews) - 1; i >= 0; i-- {
		if m.state.reviews[i].DoctorID == doctorID {
			out = append(out, m.state.reviews[i])
		}
	}
	return out, nil
}

func (m *memStore) UpsertFee(_ context.Context, doctorID uint, fee float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.fees[doctorID] = fee
	return nil
}

func (m *memStore) GetFee(_ context.Context, doctorID uint) (*models.DoctorFee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fee, ok := m.state.fees[doctorID]
	if !ok {
		return nil, nil
	}
	return &models.DoctorFee{DoctorID: doctorID, ConsultationFee: fee}, nil
}

// AppointmentStore

func (m *memStore) CreatePatient(_ context.Context, patient *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	patient.ID = m.id()
	m.state.patients[patient.ID] = *patient
	return nil
}

func (m *memStore) CountUserAppointmentsOnDay(_ context.Context, userID uint, day time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.state.appointments {
		if m.state.patients[a.PatientID].CreatedByUserID == userID && a.AppointmentDay.Equal(day) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) NextToken(_ context.Context, doctorID, hospitalID uint, day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	max := 0
	for _, a := range m.state.appointments {
		if a.DoctorID == doctorID && a.HospitalID == hospitalID && a.AppointmentDay.Equal(day) && a.Token > max {
			max = a.Token
		}
	}
	return max + 1, nil
}

func (m *memStore) CreateAppointment(_ context.Context, appointment *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("CreateAppointment"); err != nil {
		return err
	}
	for _, a := range m.state.appointments {
		if a.DoctorID == appointment.DoctorID && a.HospitalID == appointment.HospitalID &&
			a.AppointmentDay.Equal(appointment.AppointmentDay) && a.Token == appointment.Token {
			return errors.New("duplicate token")
		}
	}
	appointment.ID = m.id()
	m.state.appointments[appointment.ID] = *appointment
	return nil
}

func (m *memStore) GetAppointmentByID(_ context.Context, id uint) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.state.appointments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Appointment not found.")
	}
	p := m.state.patients[a.PatientID]
	a.Patient = &p
	return &a, nil
}

func (m *memStore) CancelAppointment(_ context.Context, id uint, reason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.state.appointments[id]
	if !ok || a.Status == models.AppointmentStatusCancelled {
		return false, nil
	}
	a.Status = models.AppointmentStatusCancelled
	a.CancelReason = reason
	m.state.appointments[id] = a
	return true, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.state.appointments[id]
	if !ok {
		return apperrors.NewNotFoundError("Appointment not found.")
	}
	a.Status = status
	m.state.appointments[id] = a
	return nil
}

// FavoriteStore

func (m *memStore) ToggleDoctor(_ context.Context, userID, doctorID, hospitalID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [3]uint{userID, doctorID, hospitalID}
	if m.state.favDoctors[key] {
		delete(m.state.favDoctors, key)
		return false, nil
	}
	m.state.favDoctors[key] = true
	return true, nil
}

func (m *memStore) ToggleHospital(_ context.Context, userID, hospitalID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{userID, hospitalID}
	if m.state.favHospitals[key] {
		delete(m.state.favHospitals, key)
		return false, nil
	}
	m.state.favHospitals[key] = true
	return true, nil
}

func (m *memStore) FavoriteHospitalIDs(_ context.Context, userID uint, hospitalIDs []uint) (map[uint]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uint]bool{}
	for _, id := range hospitalIDs {
		if m.state.favHospitals[[2]uint{userID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

func (m *memStore) FavoriteDoctorIDs(_ context.Context, userID, hospitalID uint, doctorIDs []uint) (map[uint]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uint]bool{}
	for _, id := range doctorIDs {
		if m.state.favDoctors[[3]uint{userID, id, hospitalID}] {
			out[id] = true
		}
	}
	return out, nil
}

// SearchStore filters the seeded rows by great-circle distance from the query point and orders
// them nearest first, ties by id

func (m *memStore) withinRadius(q repository.NearbyQuery) []repository.NearbyRow {
	var out []repository.NearbyRow
	for _, row := range m.state.nearby {
		row.Distance = haversineKm(q.Latitude, q.Longitude, row.Latitude, row.Longitude)
		if row.Distance <= q.RadiusKm {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	rad := math.Pi / 180
	c := math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Cos((lon2-lon1)*rad) + math.Sin(lat1*rad)*math.Sin(lat2*rad)
	return 6371 * math.Acos(math.Max(-1, math.Min(1, c)))
}

func (m *memStore) SearchNearby(_ context.Context, q repository.NearbyQuery) ([]repository.NearbyRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastNearby = q
	rows := m.withinRadius(q)
	start := (q.Page - 1) * q.Limit
	if start >= len(rows) {
		return nil, nil
	}
	end := start + q.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], nil
}

func (m *memStore) CountNearby(_ context.Context, q repository.NearbyQuery) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.withinRadius(q))), nil
}

// AuditStore

func (m *memStore) CreateAuditLog(_ context.Context, _ *uint, action string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.audit = append(m.state.audit, action)
	return nil
}
