package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	adminRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/admin"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/auth/models"
)

// MinPasswordLength минимальная длина нового пароля
const MinPasswordLength = 8

const maxPasswordBytes = 72

// Service вход администраторов и проверка bearer-токенов
type Service struct {
	adminRepo    AdminRepository
	secret       []byte
	issuer       string
	tokenTTL     time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(
	adminRepo AdminRepository,
	secret string,
	issuer string,
	tokenTTL time.Duration,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		adminRepo:    adminRepo,
		secret:       []byte(secret),
		issuer:       issuer,
		tokenTTL:     tokenTTL,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Login проверяет пароль и выдает подписанный HS256 токен
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, adminRepo.ErrAdminNotFound) {
			s.logger.Warn("Login: unknown email=%s", email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error for email=%s: %v", email, err)
		return nil, fmt.Errorf("%w: Login - repository error: %v", ErrInternal, err)
	}

	if !admin.IsActive {
		s.logger.Warn("Login: admin id=%d is inactive", admin.ID)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login: wrong password for admin id=%d", admin.ID)
		return nil, ErrInvalidCredentials
	}

	now := s.timeProvider.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &Claims{
		AdminID: admin.ID,
		VenueID: admin.VenueID,
		Role:    admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(admin.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("Login: failed to sign token for admin id=%d: %v", admin.ID, err)
		return nil, fmt.Errorf("%w: Login - sign token: %v", ErrInternal, err)
	}

	s.logger.Info("Login: admin id=%d logged in to venue=%d", admin.ID, admin.VenueID)
	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *models.FromDomainAdmin(admin),
	}, nil
}

// ParseToken проверяет подпись, издателя и срок действия токена
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.timeProvider.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.AdminID == 0 || claims.VenueID == 0 {
		return nil, fmt.Errorf("%w: missing admin or venue", ErrInvalidToken)
	}
	return claims, nil
}

// Me возвращает текущего администратора
func (s *Service) Me(ctx context.Context, adminID int64) (*models.UserResponse, error) {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, adminRepo.ErrAdminNotFound) {
			s.logger.Warn("Me: admin id=%d not found", adminID)
			return nil, ErrInvalidToken
		}
		s.logger.Error("Me: repository error for admin id=%d: %v", adminID, err)
		return nil, fmt.Errorf("%w: Me - repository error: %v", ErrInternal, err)
	}
	if !admin.IsActive {
		return nil, ErrInvalidToken
	}
	return models.FromDomainAdmin(admin), nil
}

// ChangePassword проверяет текущий пароль и сохраняет bcrypt-хеш нового.
// Выданные токены остаются действительными до истечения срока.
func (s *Service) ChangePassword(ctx context.Context, adminID int64, req *models.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrPasswordRequired
	}
	if utf8.RuneCountInString(req.NewPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	// bcrypt учитывает только первые 72 байта
	if len(req.NewPassword) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, adminRepo.ErrAdminNotFound) {
			s.logger.Warn("ChangePassword: admin id=%d not found", adminID)
			return ErrInvalidToken
		}
		s.logger.Error("ChangePassword: repository error for admin id=%d: %v", adminID, err)
		return fmt.Errorf("%w: ChangePassword - repository error: %v", ErrInternal, err)
	}
	if !admin.IsActive {
		return ErrInvalidToken
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		s.logger.Warn("ChangePassword: wrong current password for admin id=%d", adminID)
		return ErrWrongCurrentPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("ChangePassword: failed to hash password for admin id=%d: %v", adminID, err)
		return fmt.Errorf("%w: ChangePassword - hash password: %v", ErrInternal, err)
	}

	if err := s.adminRepo.UpdatePasswordHash(ctx, adminID, string(hash)); err != nil {
		if errors.Is(err, adminRepo.ErrAdminNotFound) {
			return ErrInvalidToken
		}
		s.logger.Error("ChangePassword: repository error for admin id=%d: %v", adminID, err)
		return fmt.Errorf("%w: ChangePassword - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ChangePassword: admin id=%d changed password", adminID)
	return nil
}
