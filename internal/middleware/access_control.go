package middleware

import (
	"context"
	"net/http"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HospitalAccessChecker reports whether a user is staff of a hospital
type HospitalAccessChecker interface {
	UserHasAccessToHospital(ctx context.Context, userID, hospitalID uint) (bool, error)
}

// AccessControlMiddleware provides hospital access control
type AccessControlMiddleware struct {
	staff HospitalAccessChecker
}

func NewAccessControlMiddleware(staff HospitalAccessChecker) *AccessControlMiddleware {
	return &AccessControlMiddleware{staff: staff}
}

// CheckHospitalAccess verifies the user may manage the hospital in the path
// Expected path parameter: :hospitalId
func (m *AccessControlMiddleware) CheckHospitalAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
			c.Abort()
			return
		}

		role, exists := c.Get(ContextRole)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "User role not found")
			c.Abort()
			return
		}

		hospitalID, ok := utils.ParseID(c, "hospitalId")
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
			c.Abort()
			return
		}

		// Admin users have access to all hospitals
		if role.(string) == models.RoleAdmin {
			c.Next()
			return
		}

		hasAccess, err := m.staff.UserHasAccessToHospital(c.Request.Context(), userID.(uint), hospitalID)
		if err != nil {
			log.Error().Err(err).Uint("hospital_id", hospitalID).Msg("Failed to verify hospital access")
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify access")
			c.Abort()
			return
		}

		if !hasAccess {
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied: you don't have permission to access this hospital")
			c.Abort()
			return
		}

		c.Next()
	}
}
