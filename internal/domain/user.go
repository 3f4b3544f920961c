package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user account can carry
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleRider = "rider"
)

// User is an account created on first Google login
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	ImageRef  string    `json:"image_ref" db:"image_ref"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Address is one entry in a user's address book. Deletion is soft so
// orders that reference an address textually stay explainable.
type Address struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	MobileNumber string    `json:"mobile_number" db:"mobile_number"`
	PinCode      string    `json:"pin_code" db:"pin_code"`
	Address      string    `json:"address" db:"address"`
	Locality     string    `json:"locality" db:"locality"`
	District     string    `json:"district" db:"district"`
	State        string    `json:"state" db:"state"`
	AddressTag   string    `json:"address_tag" db:"address_tag"`
	IsDeleted    bool      `json:"-" db:"is_deleted"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
