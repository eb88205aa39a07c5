package handler

import (
	"context"
	"net/http"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserService interface {
	GetMe(ctx context.Context, userID uint) (*models.User, error)
	UpdateMe(ctx context.Context, userID uint, in service.UpdateProfileInput) (*models.User, error)
}

type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetMe(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    user,
	})
}
