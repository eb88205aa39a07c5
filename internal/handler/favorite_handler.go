package handler

import (
	"context"
	"net/http"

	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type FavoriteService interface {
	ToggleDoctor(ctx context.Context, userID, doctorID, hospitalID uint) (*service.FavoriteToggle, error)
	ToggleHospital(ctx context.Context, userID, hospitalID uint) (*service.FavoriteToggle, error)
	ListAll(ctx context.Context, userID uint) (*service.FavoriteList, error)
}

type FavoriteHandler struct {
	favoriteService FavoriteService
}

func NewFavoriteHandler(favoriteService FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

type ToggleDoctorRequest struct {
	DoctorID   uint `json:"doctor_id" binding:"required"`
	HospitalID uint `json:"hospital_id" binding:"required"`
}

type ToggleHospitalRequest struct {
	HospitalID uint `json:"hospital_id" binding:"required"`
}

func (h *FavoriteHandler) ToggleDoctor(c *gin.Context) {
	var req ToggleDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "doctor_id and hospital_id are required")
		return
	}

	result, err := h.favoriteService.ToggleDoctor(c.Request.Context(), currentUserID(c), req.DoctorID, req.HospitalID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"message":     result.Message,
		"is_favorite": result.IsFavorite,
	})
}

func (h *FavoriteHandler) ToggleHospital(c *gin.Context) {
	var req ToggleHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "hospital_id is required")
		return
	}

	result, err := h.favoriteService.ToggleHospital(c.Request.Context(), currentUserID(c), req.HospitalID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"message":     result.Message,
		"is_favorite": result.IsFavorite,
	})
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	favorites, err := h.favoriteService.ListAll(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, favorites)
}
