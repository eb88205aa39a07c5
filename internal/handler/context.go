package handler

import (
	"hospital-booking-backend/internal/middleware"
	"hospital-booking-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// currentActor returns the caller set by the auth middlewares, or nil for anonymous requests
func currentActor(c *gin.Context) *service.Actor {
	userID, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	id, ok := userID.(uint)
	if !ok {
		return nil
	}
	role, _ := c.Get(middleware.ContextRole)
	roleName, _ := role.(string)
	return &service.Actor{UserID: id, Role: roleName}
}

// currentUserID is for routes behind AuthMiddleware
func currentUserID(c *gin.Context) uint {
	if a := currentActor(c); a != nil {
		return a.UserID
	}
	return 0
}
