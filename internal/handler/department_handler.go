package handler

import (
	"context"
	"net/http"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DepartmentService interface {
	ListDepartments(ctx context.Context, hospitalID uint) ([]models.Department, error)
	CreateDepartment(ctx context.Context, hospitalID uint, in service.DepartmentInput) (*models.Department, error)
	UpdateDepartment(ctx context.Context, hospitalID, departmentID uint, in service.DepartmentInput) (*models.Department, error)
	DeleteDepartment(ctx context.Context, hospitalID, departmentID uint) error
}

type DepartmentHandler struct {
	departmentService DepartmentService
}

func NewDepartmentHandler(departmentService DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

func hospitalDepartmentIDs(c *gin.Context) (hospitalID, departmentID uint, ok bool) {
	hospitalID, ok = utils.ParseID(c, "hospitalId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return 0, 0, false
	}
	departmentID, ok = utils.ParseID(c, "departmentId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid department ID")
		return 0, 0, false
	}
	return hospitalID, departmentID, true
}

func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	hospitalID, ok := utils.ParseID(c, "hospitalId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return
	}

	departments, err := h.departmentService.ListDepartments(c.Request.Context(), hospitalID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, departments)
}

func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	hospitalID, ok := utils.ParseID(c, "hospitalId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
		return
	}

	var req service.DepartmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	department, err := h.departmentService.CreateDepartment(c.Request.Context(), hospitalID, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Department created successfully",
		"data":    department,
	})
}

func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	hospitalID, departmentID, ok := hospitalDepartmentIDs(c)
	if !ok {
		return
	}

	var req service.DepartmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	department, err := h.departmentService.UpdateDepartment(c.Request.Context(), hospitalID, departmentID, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, department)
}

func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	hospitalID, departmentID, ok := hospitalDepartmentIDs(c)
	if !ok {
		return
	}

	if err := h.departmentService.DeleteDepartment(c.Request.Context(), hospitalID, departmentID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, "Department deleted successfully")
}
