package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-booking-backend/internal/config"
	"hospital-booking-backend/internal/database"
	"hospital-booking-backend/internal/logger"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/internal/service"
	"hospital-booking-backend/pkg/storage"
	"hospital-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const serviceName = "hospital-booking-backend"

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "hospital-booking",
		Short: "Hospital directory and appointment booking API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(envFile)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(envFile)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrate(envFile string) error {
	cfg := config.LoadConfig(envFile)
	logger.Init(serviceName, cfg.Server.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return database.Migrate(db)
}

func serve(envFile string) error {
	// 1. Load configuration
	cfg := config.LoadConfig(envFile)
	logger.Init(serviceName, cfg.Server.GinMode)
	log.Info().Msg("Configuration loaded successfully")

	// 2. Initialize JWT utilities with config
	utils.InitJWT(cfg.JWT.AccessSecret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// 3. Initialize database connection
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// 4. Initialize repositories and file storage
	store := repository.NewStore(db)
	files := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)

	// 5. Initialize services
	svc := &services{
		auth: service.NewAuthService(store.Users, store.OTPs, store.Audit, service.LogOTPSender{}, cfg.OTP.TTL),
		user: service.NewUserService(store.Users),
		booking: service.NewBookingService(store, store.Appointments, service.BookingRules{
			DailyLimit:               cfg.Booking.DailyLimit,
			EnforceOwnership:         cfg.Booking.EnforceOwnership,
			RequireDoctorAffiliation: cfg.Booking.RequireDoctorAffiliation,
		}),
		appointments: service.NewAppointmentService(store.Appointments),
		search:       service.NewSearchService(store.Search, store.Hospitals, store.Departments, store.Doctors, store.Favorites),
		hospitals:    service.NewHospitalService(store, store.Hospitals, store.Departments, store.Staff, store.Audit),
		departments:  service.NewDepartmentService(store, store.Hospitals, store.Departments),
		doctors:      service.NewDoctorService(store, store.Hospitals, store.Departments, store.Doctors, store.Profiles, store.Favorites),
		favorites:    service.NewFavoriteService(store, store.Favorites),
		ads:          service.NewAdvertisementService(store.Advertisement, store.Audit),
	}
	workerService := service.NewWorkerService(store.OTPs, cfg.OTP.CleanupInterval)

	// 6. Start background worker in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go workerService.Start(ctx)

	// 7. Setup Gin mode and router
	gin.SetMode(cfg.Server.GinMode)
	r := newRouter(cfg, store, files, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Setup graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return err
	}
	log.Info().Msg("Shutting down server...")

	// Cancel background worker context
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}
