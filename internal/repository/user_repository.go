package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gearshop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAddressNotFound = errors.New("address not found")
)

// UserRepository defines the interface for user and address data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateImageRef(ctx context.Context, id uuid.UUID, imageRef string) error
	AddAddress(ctx context.Context, address *domain.Address) error
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error)
	SoftDeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

type userRepository struct {
	q DBTX
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(q DBTX) UserRepository {
	return &userRepository{q: q}
}

// Create inserts a new user
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	roles, err := encodeStrings(user.Roles)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO users (id, email, name, image_ref, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Email, user.Name, user.ImageRef, roles, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var roles []byte
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.ImageRef, &roles, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if user.Roles, err = decodeStrings(roles); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, email, name, image_ref, roles, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)

	user, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by ID
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, email, name, image_ref, roles, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	user, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// UpdateImageRef stores the media reference for a user's profile image
func (r *userRepository) UpdateImageRef(ctx context.Context, id uuid.UUID, imageRef string) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET image_ref = $2, updated_at = $3
		WHERE id = $1
	`, id, imageRef, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update user image: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddAddress inserts a new address into the user's address book
func (r *userRepository) AddAddress(ctx context.Context, address *domain.Address) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	address.CreatedAt = time.Now()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO addresses (id, user_id, name, mobile_number, pin_code, address, locality, district, state, address_tag, is_deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, $11)
	`, address.ID, address.UserID, address.Name, address.MobileNumber, address.PinCode,
		address.Address, address.Locality, address.District, address.State, address.AddressTag, address.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add address: %w", err)
	}
	return nil
}

// ListAddresses retrieves the user's active addresses, oldest first
func (r *userRepository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, name, mobile_number, pin_code, address, locality, district, state, address_tag, is_deleted, created_at
		FROM addresses
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*domain.Address{}
	for rows.Next() {
		address := &domain.Address{}
		if err := rows.Scan(&address.ID, &address.UserID, &address.Name, &address.MobileNumber,
			&address.PinCode, &address.Address, &address.Locality, &address.District,
			&address.State, &address.AddressTag, &address.IsDeleted, &address.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, address)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}
	return addresses, nil
}

// SoftDeleteAddress marks an address as deleted without removing the row
func (r *userRepository) SoftDeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE addresses
		SET is_deleted = TRUE
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE
	`, addressID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}
