package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Claims содержимое bearer-токена администратора
type Claims struct {
	AdminID int64            `json:"admin_id"`
	VenueID int64            `json:"venue_id"`
	Role    domain.AdminRole `json:"role"`
	jwt.RegisteredClaims
}
