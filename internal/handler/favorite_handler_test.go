package handler

import (
	"net/http"
	"testing"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func favoriteRouter(h *FavoriteHandler) *gin.Engine {
	r := gin.New()
	r.Use(asUser(2, models.RoleUser))
	r.POST("/favorites/doctors/toggle", h.ToggleDoctor)
	r.POST("/favorites/hospitals/toggle", h.ToggleHospital)
	return r
}

func TestToggleDoctorFavorite(t *testing.T) {
	favorites := new(mockFavorites)
	r := favoriteRouter(NewFavoriteHandler(favorites))

	favorites.On("ToggleDoctor", mock.Anything, uint(2), uint(5), uint(1)).
		Return(&service.FavoriteToggle{Message: "Doctor added to favorites", IsFavorite: true}, nil)

	w := doJSON(r, http.MethodPost, "/favorites/doctors/toggle", ToggleDoctorRequest{DoctorID: 5, HospitalID: 1})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Doctor added to favorites", body["message"])
	assert.Equal(t, true, body["is_favorite"])
	favorites.AssertExpectations(t)
}

func TestToggleDoctorFavoriteRequiresIDs(t *testing.T) {
	r := favoriteRouter(NewFavoriteHandler(new(mockFavorites)))

	w := doJSON(r, http.MethodPost, "/favorites/doctors/toggle", map[string]int{"doctor_id": 5})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "doctor_id and hospital_id are required", decode(t, w)["error"])
}

func TestToggleHospitalFavoriteMissingHospital(t *testing.T) {
	favorites := new(mockFavorites)
	r := favoriteRouter(NewFavoriteHandler(favorites))

	favorites.On("ToggleHospital", mock.Anything, uint(2), uint(40)).
		Return(nil, apperrors.NewNotFoundError("Hospital not found"))

	w := doJSON(r, http.MethodPost, "/favorites/hospitals/toggle", ToggleHospitalRequest{HospitalID: 40})

	assert.Equal(t, http.StatusNotFound, w.Code)
}
