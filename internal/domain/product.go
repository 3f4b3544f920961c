package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog entry with its color variants
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Brand     string    `json:"brand" db:"brand"`
	Variants  []Variant `json:"variants"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Variant is a color/price/image grouping within a product,
// carrying per-size stock
type Variant struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	ProductID   uuid.UUID   `json:"product_id" db:"product_id"`
	Color       string      `json:"color" db:"color"`
	Price       float64     `json:"price" db:"price"`
	Description string      `json:"description" db:"description"`
	Images      []string    `json:"images"`
	Sizes       []SizeStock `json:"sizes"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// SizeStock pairs a size label with its stock count for one variant.
// Stock is never negative; decrements are guarded at the storage layer.
type SizeStock struct {
	Size  string `json:"size" db:"size"`
	Stock int    `json:"stock" db:"stock"`
}

// FindVariant returns the variant with the given ID, or nil if absent
func (p *Product) FindVariant(variantID uuid.UUID) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// FindSize returns the size/stock entry matching the label, or nil if absent
func (v *Variant) FindSize(size string) *SizeStock {
	for i := range v.Sizes {
		if v.Sizes[i].Size == size {
			return &v.Sizes[i]
		}
	}
	return nil
}

// AvailableSizes returns the size labels that currently have stock
func (v *Variant) AvailableSizes() []string {
	sizes := []string{}
	for _, s := range v.Sizes {
		if s.Stock > 0 {
			sizes = append(sizes, s.Size)
		}
	}
	return sizes
}
