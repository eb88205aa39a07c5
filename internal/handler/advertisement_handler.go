package handler

import (
	"context"
	"net/http"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/storage"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AdvertisementService interface {
	CreateAdvertisement(ctx context.Context, actor *service.Actor, in service.AdvertisementInput) (*models.Advertisement, error)
	ListAdvertisements(ctx context.Context, activeOnly bool) ([]models.Advertisement, error)
	ToggleAdvertisement(ctx context.Context, id uint) (*models.Advertisement, error)
	DeleteAdvertisement(ctx context.Context, actor *service.Actor, id uint) (*models.Advertisement, error)
}

type AdvertisementHandler struct {
	adService AdvertisementService
	files     storage.FileStore
}

func NewAdvertisementHandler(adService AdvertisementService, files storage.FileStore) *AdvertisementHandler {
	return &AdvertisementHandler{adService: adService, files: files}
}

func (h *AdvertisementHandler) CreateAdvertisement(c *gin.Context) {
	var req service.AdvertisementInput
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var stored []string
	if image := formFiles(c, "image"); len(image) > 0 {
		paths, err := saveUploads(c, h.files, image[:1], "ads")
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		req.ImageURL = paths[0]
		stored = paths
	}

	ad, err := h.adService.CreateAdvertisement(c.Request.Context(), currentActor(c), req)
	if err != nil {
		discardUploads(c, h.files, stored)
		utils.HandleError(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Advertisement created successfully",
		"data":    ad,
	})
}

// ListAdvertisements returns every ad for admins
func (h *AdvertisementHandler) ListAdvertisements(c *gin.Context) {
	h.list(c, false)
}

// ListActiveAdvertisements is the public feed
func (h *AdvertisementHandler) ListActiveAdvertisements(c *gin.Context) {
	h.list(c, true)
}

func (h *AdvertisementHandler) list(c *gin.Context, activeOnly bool) {
	ads, err := h.adService.ListAdvertisements(c.Request.Context(), activeOnly)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, ads)
}

func (h *AdvertisementHandler) ToggleAdvertisement(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid advertisement ID")
		return
	}

	ad, err := h.adService.ToggleAdvertisement(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, ad)
}

func (h *AdvertisementHandler) DeleteAdvertisement(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid advertisement ID")
		return
	}

	ad, err := h.adService.DeleteAdvertisement(c.Request.Context(), currentActor(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if ad.ImageURL != "" {
		if err := h.files.Remove(c.Request.Context(), ad.ImageURL); err != nil {
			log.Warn().Err(err).Uint("ad_id", id).Msg("Failed to remove advertisement image")
		}
	}
	utils.MessageResponse(c, "Advertisement deleted successfully")
}
