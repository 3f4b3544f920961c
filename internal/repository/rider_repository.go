package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gearshop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrRiderNotFound = errors.New("rider not found")
)

// RiderRepository defines the interface for rider data access
type RiderRepository interface {
	Create(ctx context.Context, rider *domain.Rider) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Rider, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Rider, error)
	List(ctx context.Context) ([]*domain.RiderAccount, error)
}

type riderRepository struct {
	q DBTX
}

// NewRiderRepository creates a new instance of RiderRepository
func NewRiderRepository(q DBTX) RiderRepository {
	return &riderRepository{q: q}
}

// Create inserts a new rider
func (r *riderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	if rider.ID == uuid.Nil {
		rider.ID = uuid.New()
	}
	rider.CreatedAt = time.Now()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO riders (id, user_id, name, phone_number, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rider.ID, rider.UserID, rider.Name, rider.PhoneNumber, rider.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rider: %w", err)
	}
	return nil
}

// FindByID retrieves a rider by ID
func (r *riderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Rider, error) {
	rider := &domain.Rider{}
	err := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, name, phone_number, created_at
		FROM riders
		WHERE id = $1
	`, id).Scan(&rider.ID, &rider.UserID, &rider.Name, &rider.PhoneNumber, &rider.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRiderNotFound
		}
		return nil, fmt.Errorf("failed to find rider by ID: %w", err)
	}
	return rider, nil
}

// FindByUserID retrieves the rider record backing a user account
func (r *riderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Rider, error) {
	rider := &domain.Rider{}
	err := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, name, phone_number, created_at
		FROM riders
		WHERE user_id = $1
	`, userID).Scan(&rider.ID, &rider.UserID, &rider.Name, &rider.PhoneNumber, &rider.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRiderNotFound
		}
		return nil, fmt.Errorf("failed to find rider by user ID: %w", err)
	}
	return rider, nil
}

// List retrieves every rider joined with its user account
func (r *riderRepository) List(ctx context.Context) ([]*domain.RiderAccount, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.name, u.email, r.phone_number, r.created_at
		FROM riders r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list riders: %w", err)
	}
	defer rows.Close()

	riders := []*domain.RiderAccount{}
	for rows.Next() {
		rider := &domain.RiderAccount{}
		if err := rows.Scan(&rider.ID, &rider.UserID, &rider.Name, &rider.Email,
			&rider.PhoneNumber, &rider.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rider: %w", err)
		}
		riders = append(riders, rider)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating riders: %w", err)
	}
	return riders, nil
}
