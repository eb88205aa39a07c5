package handler

import (
	"context"
	"net/http"
	"strconv"

	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/apperrors"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SearchService interface {
	SearchNearbyHospitals(ctx context.Context, in service.NearbyInput, actor *service.Actor) (*service.NearbyResult, error)
	GetHospitalDetails(ctx context.Context, hospitalID uint, actor *service.Actor) (*service.HospitalDetails, error)
}

type SearchHandler struct {
	searchService SearchService
}

func NewSearchHandler(searchService SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// queryFloat parses an optional float query parameter
func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid " + name)
	}
	return &v, nil
}

// NearbyHospitals handles GET /hospitals/nearby?latitude=&longitude=&radius=&page=&limit=&department=
func (h *SearchHandler) NearbyHospitals(c *gin.Context) {
	var in service.NearbyInput
	var err error
	if in.Latitude, err = queryFloat(c, "latitude"); err != nil {
		utils.HandleError(c, err)
		return
	}
	if in.Longitude, err = queryFloat(c, "longitude"); err != nil {
		utils.HandleError(c, err)
		return
	}
	if in.RadiusKm, err = queryFloat(c, "radius"); err != nil {
		utils.HandleError(c, err)
		return
	}
	in.Department = c.Query("department")
	in.Page, in.Limit = utils.Pagination(c, 10)

	result, err := h.searchService.SearchNearbyHospitals(c.Request.Context(), in, currentActor(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"page":      result.Page,
		"limit":     result.Limit,
		"total":     result.Total,
		"hospitals": result.Hospitals,
	})
}

func (h *SearchHandler) HospitalDetails(c *gin.Context) {
	id, ok := utils.ParseID(c, "hospital_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return
	}

	details, err := h.searchService.GetHospitalDetails(c.Request.Context(), id, currentActor(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, details)
}
