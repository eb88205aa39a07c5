package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockDoctors implements DoctorService; only the methods under test are expected
type mockDoctors struct {
	mock.Mock
	DoctorService
}

func (m *mockDoctors) AddDoctorToHospital(ctx context.Context, hospitalID uint, in service.AddDoctorInput) (*models.Doctor, error) {
	args := m.Called(ctx, hospitalID, in)
	res, _ := args.Get(0).(*models.Doctor)
	return res, args.Error(1)
}

func (m *mockDoctors) ListDoctorsForHospital(ctx context.Context, q service.DoctorListQuery, actor *service.Actor) (*service.DoctorPage, error) {
	args := m.Called(ctx, q, actor)
	res, _ := args.Get(0).(*service.DoctorPage)
	return res, args.Error(1)
}

func (m *mockDoctors) SetFee(ctx context.Context, hospitalID, doctorID uint, fee *float64) error {
	return m.Called(ctx, hospitalID, doctorID, fee).Error(0)
}

func doctorRouter(h *DoctorHandler) *gin.Engine {
	r := gin.New()
	r.GET("/hospitals/:hospitalId/doctors", h.ListDoctors)
	r.POST("/hospital/hospitals/:hospitalId/doctors", h.AddDoctor)
	r.PUT("/hospital/hospitals/:hospitalId/doctors/:doctorId/fee", h.SetFee)
	return r
}

func TestListDoctorsQuery(t *testing.T) {
	doctors := new(mockDoctors)
	r := doctorRouter(NewDoctorHandler(doctors, &fakeFiles{}))

	q := service.DoctorListQuery{HospitalID: 2, DepartmentID: 4, Name: "ra", Page: 1, Limit: 10}
	doctors.On("ListDoctorsForHospital", mock.Anything, q, (*service.Actor)(nil)).Return(&service.DoctorPage{
		Page:    1,
		Limit:   10,
		Total:   1,
		Doctors: []service.DoctorListItem{{DoctorListRow: repository.DoctorListRow{ID: 5}}},
	}, nil)

	w := doJSON(r, http.MethodGet, "/hospitals/2/doctors?department_id=4&name=ra", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])
	assert.Len(t, body["doctors"], 1)
	doctors.AssertExpectations(t)
}

func TestAddDoctorFailureRemovesImage(t *testing.T) {
	doctors := new(mockDoctors)
	files := &fakeFiles{}
	r := doctorRouter(NewDoctorHandler(doctors, files))

	buf, contentType := multipartBody(t, map[string][]string{
		"name":          {"Dr. Rao"},
		"email":         {"rao@example.com"},
		"department_id": {"9"},
	}, []formFile{{field: "image", name: "rao.png", content: "r"}})

	matches := mock.MatchedBy(func(in service.AddDoctorInput) bool {
		return in.Name == "Dr. Rao" && in.DepartmentID != nil && *in.DepartmentID == 9 &&
			in.ImageURL == "/uploads/doctors/rao.png"
	})
	doctors.On("AddDoctorToHospital", mock.Anything, uint(3), matches).
		Return(nil, apperrors.NewValidationError("Department does not belong to this hospital"))

	req := httptest.NewRequest(http.MethodPost, "/hospital/hospitals/3/doctors", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"/uploads/doctors/rao.png"}, files.removed)
	doctors.AssertExpectations(t)
}

func TestSetFeeInvalidDoctorID(t *testing.T) {
	r := doctorRouter(NewDoctorHandler(new(mockDoctors), &fakeFiles{}))

	w := doJSON(r, http.MethodPut, "/hospital/hospitals/3/doctors/zero/fee", FeeRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid doctor ID", decode(t, w)["error"])
}
