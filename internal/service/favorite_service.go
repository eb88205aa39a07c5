package service

import (
	"context"

	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"
)

type FavoriteToggle struct {
	Message    string `json:"message"`
	IsFavorite bool   `json:"is_favorite"`
}

type FavoriteList struct {
	Doctors   []repository.FavoriteDoctorView   `json:"doctors"`
	Hospitals []repository.FavoriteHospitalView `json:"hospitals"`
}

type FavoriteService struct {
	tx        repository.Transactor
	favorites repository.FavoriteStore
}

func NewFavoriteService(tx repository.Transactor, favorites repository.FavoriteStore) *FavoriteService {
	return &FavoriteService{tx: tx, favorites: favorites}
}

// ToggleDoctor flips the (user, doctor, hospital) favorite
func (s *FavoriteService) ToggleDoctor(ctx context.Context, userID, doctorID, hospitalID uint) (*FavoriteToggle, error) {
	if doctorID == 0 || hospitalID == 0 {
		return nil, apperrors.NewValidationError("doctor_id and hospital_id are required")
	}

	var added bool
	err := s.tx.InTransaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Doctors.GetDoctorByID(ctx, doctorID); err != nil {
			return err
		}
		if _, err := tx.Hospitals.GetHospitalByID(ctx, hospitalID); err != nil {
			return err
		}
		var err error
		added, err = tx.Favorites.ToggleDoctor(ctx, userID, doctorID, hospitalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if added {
		return &FavoriteToggle{Message: "Doctor added to favorites", IsFavorite: true}, nil
	}
	return &FavoriteToggle{Message: "Doctor removed from favorites", IsFavorite: false}, nil
}

func (s *FavoriteService) ToggleHospital(ctx context.Context, userID, hospitalID uint) (*FavoriteToggle, error) {
	if hospitalID == 0 {
		return nil, apperrors.NewValidationError("hospital_id is required")
	}

	var added bool
	err := s.tx.InTransaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Hospitals.GetHospitalByID(ctx, hospitalID); err != nil {
			return err
		}
		var err error
		added, err = tx.Favorites.ToggleHospital(ctx, userID, hospitalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if added {
		return &FavoriteToggle{Message: "Hospital added to favorites", IsFavorite: true}, nil
	}
	return &FavoriteToggle{Message: "Hospital removed from favorites", IsFavorite: false}, nil
}

func (s *FavoriteService) ListAll(ctx context.Context, userID uint) (*FavoriteList, error) {
	doctors, err := s.favorites.ListFavoriteDoctors(ctx, userID)
	if err != nil {
		return nil, err
	}
	hospitals, err := s.favorites.ListFavoriteHospitals(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &FavoriteList{Doctors: doctors, Hospitals: hospitals}
	if list.Doctors == nil {
		list.Doctors = []repository.FavoriteDoctorView{}
	}
	if list.Hospitals == nil {
		list.Hospitals = []repository.FavoriteHospitalView{}
	}
	return list, nil
}
