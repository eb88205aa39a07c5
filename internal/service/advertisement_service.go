package service

import (
	"context"
	"fmt"
	"strings"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"
)

type AdvertisementInput struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	TargetURL   string `form:"target_url" json:"target_url"`
	ImageURL    string `form:"-" json:"-"`
}

type AdvertisementService struct {
	ads   repository.AdvertisementStore
	audit repository.AuditStore
}

func NewAdvertisementService(ads repository.AdvertisementStore, audit repository.AuditStore) *AdvertisementService {
	return &AdvertisementService{ads: ads, audit: audit}
}

func (s *AdvertisementService) CreateAdvertisement(ctx context.Context, actor *Actor, in AdvertisementInput) (*models.Advertisement, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.NewValidationError("title is required")
	}

	ad := &models.Advertisement{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		TargetURL:   strings.TrimSpace(in.TargetURL),
		IsActive:    true,
	}
	if err := s.ads.CreateAdvertisement(ctx, ad); err != nil {
		return nil, err
	}

	_ = s.audit.CreateAuditLog(ctx, actorID(actor), "advertisement_create", fmt.Sprintf("Created advertisement %d", ad.ID))
	return ad, nil
}

func (s *AdvertisementService) ListAdvertisements(ctx context.Context, activeOnly bool) ([]models.Advertisement, error) {
	ads, err := s.ads.ListAdvertisements(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if ads == nil {
		ads = []models.Advertisement{}
	}
	return ads, nil
}

func (s *AdvertisementService) ToggleAdvertisement(ctx context.Context, id uint) (*models.Advertisement, error) {
	return s.ads.ToggleAdvertisement(ctx, id)
}

// DeleteAdvertisement removes the row and returns it so the caller can drop its image
func (s *AdvertisementService) DeleteAdvertisement(ctx context.Context, actor *Actor, id uint) (*models.Advertisement, error) {
	ad, err := s.ads.GetAdvertisement(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ads.DeleteAdvertisement(ctx, id); err != nil {
		return nil, err
	}

	_ = s.audit.CreateAuditLog(ctx, actorID(actor), "advertisement_delete", fmt.Sprintf("Deleted advertisement %d", id))
	return ad, nil
}
