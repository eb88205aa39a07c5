package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital-booking-backend/internal/middleware"
	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser stands in for AuthMiddleware
func asUser(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type formFile struct {
	field, name, content string
}

func multipartBody(t *testing.T, fields map[string][]string, files []formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

type mockBooking struct{ mock.Mock }

func (m *mockBooking) CreateAppointment(ctx context.Context, userID uint, in service.CreateAppointmentInput) (*service.BookingResult, error) {
	args := m.Called(ctx, userID, in)
	res, _ := args.Get(0).(*service.BookingResult)
	return res, args.Error(1)
}

func (m *mockBooking) CancelAppointment(ctx context.Context, id uint, reason string, actor *service.Actor) error {
	return m.Called(ctx, id, reason, actor).Error(0)
}

func (m *mockBooking) UpdateAppointmentStatus(ctx context.Context, id uint, status string, actor *service.Actor) error {
	return m.Called(ctx, id, status, actor).Error(0)
}

type mockAppointmentQueries struct{ mock.Mock }

func (m *mockAppointmentQueries) GetMyAppointments(ctx context.Context, userID uint, q service.MyAppointmentsQuery) ([]repository.AppointmentView, error) {
	args := m.Called(ctx, userID, q)
	res, _ := args.Get(0).([]repository.AppointmentView)
	return res, args.Error(1)
}

func (m *mockAppointmentQueries) GetAppointmentDetails(ctx context.Context, id, userID uint) (*repository.AppointmentView, error) {
	args := m.Called(ctx, id, userID)
	res, _ := args.Get(0).(*repository.AppointmentView)
	return res, args.Error(1)
}

func (m *mockAppointmentQueries) ListAppointments(ctx context.Context, hospitalID, doctorID uint, page, limit int) ([]repository.AppointmentView, int64, error) {
	args := m.Called(ctx, hospitalID, doctorID, page, limit)
	res, _ := args.Get(0).([]repository.AppointmentView)
	return res, args.Get(1).(int64), args.Error(2)
}

type mockSearch struct{ mock.Mock }

func (m *mockSearch) SearchNearbyHospitals(ctx context.Context, in service.NearbyInput, actor *service.Actor) (*service.NearbyResult, error) {
	args := m.Called(ctx, in, actor)
	res, _ := args.Get(0).(*service.NearbyResult)
	return res, args.Error(1)
}

func (m *mockSearch) GetHospitalDetails(ctx context.Context, hospitalID uint, actor *service.Actor) (*service.HospitalDetails, error) {
	args := m.Called(ctx, hospitalID, actor)
	res, _ := args.Get(0).(*service.HospitalDetails)
	return res, args.Error(1)
}

type mockFavorites struct{ mock.Mock }

func (m *mockFavorites) ToggleDoctor(ctx context.Context, userID, doctorID, hospitalID uint) (*service.FavoriteToggle, error) {
	args := m.Called(ctx, userID, doctorID, hospitalID)
	res, _ := args.Get(0).(*service.FavoriteToggle)
	return res, args.Error(1)
}

func (m *mockFavorites) ToggleHospital(ctx context.Context, userID, hospitalID uint) (*service.FavoriteToggle, error) {
	args := m.Called(ctx, userID, hospitalID)
	res, _ := args.Get(0).(*service.FavoriteToggle)
	return res, args.Error(1)
}

func (m *mockFavorites) ListAll(ctx context.Context, userID uint) (*service.FavoriteList, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*service.FavoriteList)
	return res, args.Error(1)
}

type mockHospitals struct{ mock.Mock }

func (m *mockHospitals) CreateHospital(ctx context.Context, actor *service.Actor, in service.CreateHospitalInput) (*models.Hospital, error) {
	args := m.Called(ctx, actor, in)
	res, _ := args.Get(0).(*models.Hospital)
	return res, args.Error(1)
}

func (m *mockHospitals) ListHospitals(ctx context.Context, page, limit int) (*service.HospitalPage, error) {
	args := m.Called(ctx, page, limit)
	res, _ := args.Get(0).(*service.HospitalPage)
	return res, args.Error(1)
}

func (m *mockHospitals) GetHospital(ctx context.Context, id uint) (*service.HospitalView, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*service.HospitalView)
	return res, args.Error(1)
}

func (m *mockHospitals) UpdateHospital(ctx context.Context, actor *service.Actor, id uint, in service.UpdateHospitalInput) (*models.Hospital, error) {
	args := m.Called(ctx, actor, id, in)
	res, _ := args.Get(0).(*models.Hospital)
	return res, args.Error(1)
}

func (m *mockHospitals) DeleteHospital(ctx context.Context, actor *service.Actor, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockHospitals) ListOwnerHospitals(ctx context.Context, ownerID uint) ([]models.Hospital, error) {
	args := m.Called(ctx, ownerID)
	res, _ := args.Get(0).([]models.Hospital)
	return res, args.Error(1)
}

func (m *mockHospitals) AddImages(ctx context.Context, hospitalID uint, images []service.ImageInput) ([]models.HospitalImage, error) {
	args := m.Called(ctx, hospitalID, images)
	res, _ := args.Get(0).([]models.HospitalImage)
	return res, args.Error(1)
}

// fakeFiles records saved and removed paths without touching disk
type fakeFiles struct {
	saved   []string
	removed []string
	failOn  string
	err     error
}

func (f *fakeFiles) Save(_ context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	if f.failOn != "" && fh.Filename == f.failOn {
		return "", f.err
	}
	p := "/uploads/" + folder + "/" + fh.Filename
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakeFiles) Remove(_ context.Context, p string) error {
	f.removed = append(f.removed, p)
	return nil
}
