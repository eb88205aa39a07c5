package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/apperrors"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type BookingService interface {
	CreateAppointment(ctx context.Context, userID uint, in service.CreateAppointmentInput) (*service.BookingResult, error)
	CancelAppointment(ctx context.Context, id uint, reason string, actor *service.Actor) error
	UpdateAppointmentStatus(ctx context.Context, id uint, status string, actor *service.Actor) error
}

type AppointmentQueryService interface {
	GetMyAppointments(ctx context.Context, userID uint, q service.MyAppointmentsQuery) ([]repository.AppointmentView, error)
	GetAppointmentDetails(ctx context.Context, id, userID uint) (*repository.AppointmentView, error)
	ListAppointments(ctx context.Context, hospitalID, doctorID uint, page, limit int) ([]repository.AppointmentView, int64, error)
}

type AppointmentHandler struct {
	booking BookingService
	queries AppointmentQueryService
}

func NewAppointmentHandler(booking BookingService, queries AppointmentQueryService) *AppointmentHandler {
	return &AppointmentHandler{booking: booking, queries: queries}
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

// CreateAppointment books a visit for the authenticated user
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req service.CreateAppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.booking.CreateAppointment(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message":          "Appointment created successfully.",
		"appointment_id":   result.AppointmentID,
		"appointment_date": result.AppointmentDate,
		"token":            result.Token,
		"status":           result.Status,
		"patient":          result.Patient,
		"doctor":           result.Doctor,
		"hospital":         result.Hospital,
	})
}

func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	// the body is optional, but a body that is sent must parse
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.booking.CancelAppointment(c.Request.Context(), id, req.Reason, currentActor(c)); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, "Appointment cancelled successfully.")
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.booking.UpdateAppointmentStatus(c.Request.Context(), id, req.Status, currentActor(c)); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, "Status updated to "+req.Status)
}

// GetMyAppointments lists the caller's bookings with optional date range and status filters
func (h *AppointmentHandler) GetMyAppointments(c *gin.Context) {
	appointments, err := h.queries.GetMyAppointments(c.Request.Context(), currentUserID(c), service.MyAppointmentsQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Status:    c.Query("status"),
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"count":        len(appointments),
		"appointments": appointments,
	})
}

func (h *AppointmentHandler) GetAppointmentDetails(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	appointment, err := h.queries.GetAppointmentDetails(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, appointment)
}

// optionalQueryID parses an optional positive id from the query string; absent means 0
func optionalQueryID(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// ListAppointments is the staff view filtered by hospital_id and/or doctor_id
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	hospitalID, err := optionalQueryID(c, "hospital_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	doctorID, err := optionalQueryID(c, "doctor_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	page, limit := utils.Pagination(c, 20)

	appointments, total, err := h.queries.ListAppointments(c.Request.Context(), hospitalID, doctorID, page, limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"page":         page,
		"limit":        limit,
		"total":        total,
		"appointments": appointments,
	})
}
