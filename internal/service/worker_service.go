package service

import (
	"context"
	"time"

	"hospital-booking-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// WorkerService purges expired one-time codes in the background
type WorkerService struct {
	otps     repository.OTPStore
	interval time.Duration
}

func NewWorkerService(otps repository.OTPStore, interval time.Duration) *WorkerService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &WorkerService{
		otps:     otps,
		interval: interval,
	}
}

// Start runs until ctx is cancelled
func (w *WorkerService) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Msg("OTP cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("OTP cleanup worker stopped")
			return
		case <-ticker.C:
			w.purgeExpiredOTPs(ctx)
		}
	}
}

func (w *WorkerService) purgeExpiredOTPs(ctx context.Context) {
	removed, err := w.otps.DeleteExpiredOTPs(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Error purging expired OTPs")
		return
	}
	if removed > 0 {
		log.Debug().Int64("removed", removed).Msg("Purged expired OTPs")
	}
}
