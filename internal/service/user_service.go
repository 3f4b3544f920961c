package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearshop/internal/domain"
	"gearshop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// UserService defines the interface for login, sessions, and the
// address book
type UserService interface {
	LoginWithGoogle(ctx context.Context, code string) (token string, user *domain.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	AddAddress(ctx context.Context, userID uuid.UUID, address *domain.Address) (*domain.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

// Claims represents the JWT claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Roles  []string  `json:"roles"`
	jwt.RegisteredClaims
}

type userService struct {
	userRepo  repository.UserRepository
	identity  IdentityProvider
	jwtSecret string
	tokenTTL  time.Duration
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	identity IdentityProvider,
	jwtSecret string,
	tokenTTL time.Duration,
) UserService {
	return &userService{
		userRepo:  userRepo,
		identity:  identity,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// LoginWithGoogle exchanges a Google authorization code for a session
// token, creating the account on first login
func (s *userService) LoginWithGoogle(ctx context.Context, code string) (string, *domain.User, error) {
	info, err := s.identity.FetchUser(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify login: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, info.Email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		user = &domain.User{
			Email:    info.Email,
			Name:     info.Name,
			ImageRef: info.Picture,
			Roles:    []string{domain.RoleUser},
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", nil, fmt.Errorf("failed to create user: %w", err)
		}
	case err != nil:
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AddAddress stores a new entry in the user's address book
func (s *userService) AddAddress(ctx context.Context, userID uuid.UUID, address *domain.Address) (*domain.Address, error) {
	address.UserID = userID
	if err := s.userRepo.AddAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// ListAddresses returns the user's active addresses
func (s *userService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	return s.userRepo.ListAddresses(ctx, userID)
}

// DeleteAddress soft-deletes an address the user owns
func (s *userService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.userRepo.SoftDeleteAddress(ctx, userID, addressID)
}

// generateToken signs a JWT carrying the user's identity and roles
func (s *userService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
