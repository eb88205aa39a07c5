package handler

import (
	"context"
	"net/http"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/apperrors"
	"hospital-booking-backend/pkg/storage"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type HospitalService interface {
	CreateHospital(ctx context.Context, actor *service.Actor, in service.CreateHospitalInput) (*models.Hospital, error)
	ListHospitals(ctx context.Context, page, limit int) (*service.HospitalPage, error)
	GetHospital(ctx context.Context, id uint) (*service.HospitalView, error)
	UpdateHospital(ctx context.Context, actor *service.Actor, id uint, in service.UpdateHospitalInput) (*models.Hospital, error)
	DeleteHospital(ctx context.Context, actor *service.Actor, id uint) error
	ListOwnerHospitals(ctx context.Context, ownerID uint) ([]models.Hospital, error)
	AddImages(ctx context.Context, hospitalID uint, images []service.ImageInput) ([]models.HospitalImage, error)
}

type HospitalHandler struct {
	hospitalService HospitalService
	files           storage.FileStore
}

func NewHospitalHandler(hospitalService HospitalService, files storage.FileStore) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
		files:           files,
	}
}

// imageInputs pairs stored paths with the descriptions[] form values by position
func imageInputs(c *gin.Context, paths []string) []service.ImageInput {
	descriptions := c.PostFormArray("descriptions")
	images := make([]service.ImageInput, 0, len(paths))
	for i, p := range paths {
		img := service.ImageInput{ImageURL: p}
		if i < len(descriptions) {
			img.Description = descriptions[i]
		}
		images = append(images, img)
	}
	return images
}

// CreateHospital registers a hospital with its owner account, logo and gallery (admin only)
func (h *HospitalHandler) CreateHospital(c *gin.Context) {
	var req service.CreateHospitalInput
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var stored []string
	if logo := formFiles(c, "logo"); len(logo) > 0 {
		paths, err := saveUploads(c, h.files, logo[:1], "hospitals")
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		req.LogoURL = paths[0]
		stored = append(stored, paths...)
	}

	paths, err := saveUploads(c, h.files, formFiles(c, "images"), "hospitals")
	if err != nil {
		discardUploads(c, h.files, stored)
		utils.HandleError(c, err)
		return
	}
	stored = append(stored, paths...)
	req.Images = imageInputs(c, paths)

	hospital, err := h.hospitalService.CreateHospital(c.Request.Context(), currentActor(c), req)
	if err != nil {
		discardUploads(c, h.files, stored)
		utils.HandleError(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Hospital created successfully",
		"data":    hospital,
	})
}

func (h *HospitalHandler) ListHospitals(c *gin.Context) {
	page, limit := utils.Pagination(c, 20)
	result, err := h.hospitalService.ListHospitals(c.Request.Context(), page, limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

// GetHospital retrieves a specific hospital by ID
func (h *HospitalHandler) GetHospital(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return
	}

	hospital, err := h.hospitalService.GetHospital(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, hospital)
}

// UpdateHospital applies a partial update
func (h *HospitalHandler) UpdateHospital(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return
	}

	var req service.UpdateHospitalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	hospital, err := h.hospitalService.UpdateHospital(c.Request.Context(), currentActor(c), id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, hospital)
}

func (h *HospitalHandler) DeleteHospital(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return
	}

	if err := h.hospitalService.DeleteHospital(c.Request.Context(), currentActor(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, "Hospital deleted successfully")
}

func (h *HospitalHandler) ListOwnerHospitals(c *gin.Context) {
	ownerID, ok := utils.ParseID(c, "ownerId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid owner ID")
		return
	}

	hospitals, err := h.hospitalService.ListOwnerHospitals(c.Request.Context(), ownerID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// AddImages stores a batch of gallery images for the hospital
func (h *HospitalHandler) AddImages(c *gin.Context) {
	hospitalID, ok := utils.ParseID(c, "hospitalId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return
	}

	headers := formFiles(c, "images")
	if len(headers) == 0 {
		utils.HandleError(c, apperrors.NewValidationError("At least one image is required"))
		return
	}

	paths, err := saveUploads(c, h.files, headers, "hospitals")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	images, err := h.hospitalService.AddImages(c.Request.Context(), hospitalID, imageInputs(c, paths))
	if err != nil {
		discardUploads(c, h.files, paths)
		utils.HandleError(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Images uploaded successfully",
		"data":    images,
	})
}
