package handler

import (
	"context"
	"net/http"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/storage"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DoctorService interface {
	AddDoctorToHospital(ctx context.Context, hospitalID uint, in service.AddDoctorInput) (*models.Doctor, error)
	RemoveDoctorFromHospital(ctx context.Context, hospitalID, doctorID uint) error
	ListDoctorsForHospital(ctx context.Context, q service.DoctorListQuery, actor *service.Actor) (*service.DoctorPage, error)
	GetDoctorDetail(ctx context.Context, hospitalID, doctorID uint) (*service.DoctorDetail, error)
	ListSchedules(ctx context.Context, hospitalID, doctorID uint) ([]models.DoctorSchedule, error)
	CreateSchedule(ctx context.Context, hospitalID, doctorID uint, in service.ScheduleInput) (*models.DoctorSchedule, error)
	UpdateSchedule(ctx context.Context, hospitalID, doctorID, scheduleID uint, in service.ScheduleInput) (*models.DoctorSchedule, error)
	DeleteSchedule(ctx context.Context, hospitalID, doctorID, scheduleID uint) error
	SetFee(ctx context.Context, hospitalID, doctorID uint, fee *float64) error
	AddReview(ctx context.Context, hospitalID, doctorID, userID uint, rating int, comment string) (*models.DoctorReview, error)
}

type DoctorHandler struct {
	doctorService DoctorService
	files         storage.FileStore
}

func NewDoctorHandler(doctorService DoctorService, files storage.FileStore) *DoctorHandler {
	return &DoctorHandler{
		doctorService: doctorService,
		files:         files,
	}
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type FeeRequest struct {
	ConsultationFee *float64 `json:"consultation_fee"`
}

// hospitalDoctorIDs reads :hospitalId and :doctorId
func hospitalDoctorIDs(c *gin.Context) (hospitalID, doctorID uint, ok bool) {
	hospitalID, ok = utils.ParseID(c, "hospitalId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return 0, 0, false
	}
	doctorID, ok = utils.ParseID(c, "doctorId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid doctor ID")
		return 0, 0, false
	}
	return hospitalID, doctorID, true
}

// ListDoctors handles GET /hospitals/:hospitalId/doctors?department_id=&name=&page=&limit=
func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	hospitalID, ok := utils.ParseID(c, "hospitalId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return
	}
	departmentID, err := optionalQueryID(c, "department_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	q := service.DoctorListQuery{
		HospitalID:   hospitalID,
		DepartmentID: departmentID,
		Name:         c.Query("name"),
	}
	q.Page, q.Limit = utils.Pagination(c, 10)

	result, err := h.doctorService.ListDoctorsForHospital(c.Request.Context(), q, currentActor(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"page":    result.Page,
		"limit":   result.Limit,
		"total":   result.Total,
		"doctors": result.Doctors,
	})
}

func (h *DoctorHandler) GetDoctorDetail(c *gin.Context) {
	hospitalID, doctorID, ok := hospitalDoctorIDs(c)
	if !ok {
		return
	}

	detail, err := h.doctorService.GetDoctorDetail(c.Request.Context(), hospitalID, doctorID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, detail)
}

func (h *DoctorHandler) AddReview(c *gin.Context) {
	hospitalID, doctorID, ok := hospitalDoctorIDs(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.doctorService.AddReview(c.Request.Context(), hospitalID, doctorID, currentUserID(c), req.Rating, req.Comment)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Review added successfully",
		"data":    review,
	})
}

// AddDoctor creates or reuses the doctor and maps them to the hospital. The image is optional.
func (h *DoctorHandler) AddDoctor(c *gin.Context) {
	hospitalID, ok := utils.ParseID(c, "hospitalId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return
	}

	var req service.AddDoctorInput
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var stored []string
	if image := formFiles(c, "image"); len(image) > 0 {
		paths, err := saveUploads(c, h.files, image[:1], "doctors")
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		req.ImageURL = paths[0]
		stored = paths
	}

	doctor, err := h.doctorService.AddDoctorToHospital(c.Request.Context(), hospitalID, req)
	if err != nil {
		discardUploads(c, h.files, stored)
		utils.HandleError(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Doctor added to hospital successfully",
		"data":    doctor,
	})
}

func (h *DoctorHandler) RemoveDoctor(c *gin.Context) {
	hospitalID, doctorID, ok := hospitalDoctorIDs(c)
	if !ok {
		return
	}

	if err := h.doctorService.RemoveDoctorFromHospital(c.Request.Context(), hospitalID, doctorID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, "Doctor removed from hospital successfully")
}

func (h *DoctorHandler) ListSchedules(c *gin.Context) {
	hospitalID, doctorID, ok := hospitalDoctorIDs(c)
	if !ok {
		return
	}

	schedules, err := h.doctorService.ListSchedules(c.Request.Context(), hospitalID, doctorID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, schedules)
}

func (h *DoctorHandler) CreateSchedule(c *gin.Context) {
	hospitalID, doctorID, ok := hospitalDoctorIDs(c)
	if !ok {
		return
	}

	var req service.ScheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	schedule, err := h.doctorService.CreateSchedule(c.Request.Context(), hospitalID, doctorID, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Schedule created successfully",
		"data":    schedule,
	})
}

func (h *DoctorHandler) UpdateSchedule(c *gin.Context) {
	hospitalID, doctorID, ok := hospitalDoctorIDs(c)
	if !ok {
		return
	}
	scheduleID, ok := utils.ParseID(c, "scheduleId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	var req service.ScheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	schedule, err := h.doctorService.UpdateSchedule(c.Request.Context(), hospitalID, doctorID, scheduleID, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, schedule)
}

func (h *DoctorHandler) DeleteSchedule(c *gin.Context) {
	hospitalID, doctorID, ok := hospitalDoctorIDs(c)
	if !ok {
		return
	}
	scheduleID, ok := utils.ParseID(c, "scheduleId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	if err := h.doctorService.DeleteSchedule(c.Request.Context(), hospitalID, doctorID, scheduleID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, "Schedule deleted successfully")
}

// SetFee stores the consultation fee shown on the doctor detail page
func (h *DoctorHandler) SetFee(c *gin.Context) {
	hospitalID, doctorID, ok := hospitalDoctorIDs(c)
	if !ok {
		return
	}

	var req FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.doctorService.SetFee(c.Request.Context(), hospitalID, doctorID, req.ConsultationFee); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, "Consultation fee updated successfully")
}
