package main

import (
	"hospital-booking-backend/internal/config"
	"hospital-booking-backend/internal/handler"
	"hospital-booking-backend/internal/middleware"
	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/storage"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	booking      *service.BookingService
	appointments *service.AppointmentService
	search       *service.SearchService
	hospitals    *service.HospitalService
	departments  *service.DepartmentService
	doctors      *service.DoctorService
	favorites    *service.FavoriteService
	ads          *service.AdvertisementService
}

func newRouter(cfg *config.Config, store *repository.Store, files storage.FileStore, svc *services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg))
	r.MaxMultipartMemory = cfg.Upload.MaxBytes

	authHandler := handler.NewAuthHandler(svc.auth)
	userHandler := handler.NewUserHandler(svc.user)
	appointmentHandler := handler.NewAppointmentHandler(svc.booking, svc.appointments)
	searchHandler := handler.NewSearchHandler(svc.search)
	hospitalHandler := handler.NewHospitalHandler(svc.hospitals, files)
	departmentHandler := handler.NewDepartmentHandler(svc.departments)
	doctorHandler := handler.NewDoctorHandler(svc.doctors, files)
	favoriteHandler := handler.NewFavoriteHandler(svc.favorites)
	adHandler := handler.NewAdvertisementHandler(svc.ads, files)
	accessControl := middleware.NewAccessControlMiddleware(store.Staff)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})
	r.Static("/uploads", cfg.Upload.Dir)

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/request-otp", authHandler.RequestOTP)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	users := r.Group("/users", middleware.AuthMiddleware())
	{
		users.GET("/me", userHandler.GetMe)
		users.PUT("/me", userHandler.UpdateMe)
	}

	appointments := r.Group("/appointments")
	{
		appointments.POST("", middleware.AuthMiddleware(), appointmentHandler.CreateAppointment)
		appointments.GET("/mine", middleware.AuthMiddleware(), appointmentHandler.GetMyAppointments)
		appointments.GET("/details/:id", middleware.AuthMiddleware(), appointmentHandler.GetAppointmentDetails)
		appointments.PUT("/:id/cancel", middleware.OptionalAuth(), appointmentHandler.CancelAppointment)
		appointments.PUT("/:id/status", middleware.OptionalAuth(), appointmentHandler.UpdateStatus)
	}

	// Public directory; a token only adds is_favorite flags
	r.GET("/hospitals/nearby", middleware.OptionalAuth(), searchHandler.NearbyHospitals)
	r.GET("/details/:hospital_id", middleware.OptionalAuth(), searchHandler.HospitalDetails)
	r.GET("/hospitals/:hospitalId/doctors", middleware.OptionalAuth(), doctorHandler.ListDoctors)
	r.GET("/hospitals/:hospitalId/doctors/:doctorId/details", doctorHandler.GetDoctorDetail)
	r.POST("/hospitals/:hospitalId/doctors/:doctorId/reviews", middleware.AuthMiddleware(), doctorHandler.AddReview)
	r.GET("/ads/active", adHandler.ListActiveAdvertisements)

	favorites := r.Group("/favorites", middleware.AuthMiddleware())
	{
		favorites.POST("/doctors/toggle", favoriteHandler.ToggleDoctor)
		favorites.POST("/hospitals/toggle", favoriteHandler.ToggleHospital)
		favorites.GET("/all", favoriteHandler.ListFavorites)
	}

	// Admin-only routes
	admin := r.Group("/admin", middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.POST("/hospitals", hospitalHandler.CreateHospital)
		admin.GET("/hospitals", hospitalHandler.ListHospitals)
		admin.GET("/hospitals/:id", hospitalHandler.GetHospital)
		admin.PUT("/hospitals/:id", hospitalHandler.UpdateHospital)
		admin.DELETE("/hospitals/:id", hospitalHandler.DeleteHospital)
		admin.GET("/owners/:ownerId/hospitals", hospitalHandler.ListOwnerHospitals)

		admin.POST("/ads", adHandler.CreateAdvertisement)
		admin.GET("/ads", adHandler.ListAdvertisements)
		admin.PATCH("/ads/:id/toggle", adHandler.ToggleAdvertisement)
		admin.DELETE("/ads/:id", adHandler.DeleteAdvertisement)
	}

	// Hospital management, limited to the hospital's staff
	manage := r.Group("/hospital/hospitals/:hospitalId",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleAdmin, models.RoleOwner, models.RoleHospital),
		accessControl.CheckHospitalAccess(),
	)
	{
		manage.GET("/departments", departmentHandler.ListDepartments)
		manage.POST("/departments", departmentHandler.CreateDepartment)
		manage.PUT("/departments/:departmentId", departmentHandler.UpdateDepartment)
		manage.DELETE("/departments/:departmentId", departmentHandler.DeleteDepartment)

		manage.POST("/images", hospitalHandler.AddImages)

		manage.POST("/doctors", doctorHandler.AddDoctor)
		manage.DELETE("/doctors/:doctorId", doctorHandler.RemoveDoctor)
		manage.GET("/doctors/:doctorId/schedules", doctorHandler.ListSchedules)
		manage.POST("/doctors/:doctorId/schedules", doctorHandler.CreateSchedule)
		manage.PUT("/doctors/:doctorId/schedules/:scheduleId", doctorHandler.UpdateSchedule)
		manage.DELETE("/doctors/:doctorId/schedules/:scheduleId", doctorHandler.DeleteSchedule)
		manage.PUT("/doctors/:doctorId/fee", doctorHandler.SetFee)
	}

	doctor := r.Group("/doctor",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleDoctor, models.RoleHospital, models.RoleOwner, models.RoleAdmin),
	)
	{
		doctor.GET("/appointments", appointmentHandler.ListAppointments)
	}

	return r
}
