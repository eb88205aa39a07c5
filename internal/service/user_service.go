package service

import (
	"context"
	"strings"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"
)

type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type UserService struct {
	users repository.UserStore
}

func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.FindUserByID(ctx, userID)
}

// UpdateMe applies the non-nil fields. Email and phone must stay unique across users
// and the account must keep at least one of them.
func (s *UserService) UpdateMe(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	current, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	email := derefString(current.Email)
	phone := derefString(current.Phone)
	if in.Email != nil {
		email = strings.TrimSpace(strings.ToLower(*in.Email))
		fields["email"] = nullable(email)
	}
	if in.Phone != nil {
		phone = strings.TrimSpace(*in.Phone)
		fields["phone"] = nullable(phone)
	}
	if email == "" && phone == "" {
		return nil, apperrors.NewValidationError("Email or phone is required")
	}
	if len(fields) == 0 {
		return current, nil
	}

	for _, probe := range [][2]string{{email, ""}, {"", phone}} {
		if probe[0] == "" && probe[1] == "" {
			continue
		}
		other, err := s.users.FindUserByEmailOrPhone(ctx, probe[0], probe[1])
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
				continue
			}
			return nil, err
		}
		if other.ID != userID {
			return nil, apperrors.NewConflictError("Email or phone already in use")
		}
	}

	if err := s.users.UpdateUser(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.users.FindUserByID(ctx, userID)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullable maps "" to NULL so the unique indexes ignore cleared values
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
