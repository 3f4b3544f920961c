package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem references a product variant and size chosen by a user.
// A (user, product, variant, size) tuple appears at most once; repeated
// adds increment the quantity instead of duplicating the row.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	VariantID uuid.UUID `json:"variant_id" db:"variant_id"`
	Size      string    `json:"size" db:"size"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WishlistItem marks a product variant a user has saved for later
type WishlistItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	VariantID uuid.UUID `json:"variant_id" db:"variant_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
