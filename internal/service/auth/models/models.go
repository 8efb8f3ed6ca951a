package models

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// LoginRequest запрос на вход администратора
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest смена пароля текущего администратора
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserResponse администратор в формате API
type UserResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	VenueID int64  `json:"venue_id"`
	Role    string `json:"role"`
}

// LoginResponse выданный токен и данные администратора
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// FromDomainAdmin конвертирует domain модель в DTO
func FromDomainAdmin(a *domain.AdminUser) *UserResponse {
	return &UserResponse{
		ID:      a.ID,
		Email:   a.Email,
		Name:    a.Name,
		VenueID: a.VenueID,
		Role:    string(a.Role),
	}
}
