package product

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrDuplicate      = errors.New("product already exists")
	ErrInvalid        = errors.New("invalid product")
	ErrUnknownCompany = errors.New("unknown company")
	// ErrExternalCompany is returned for companies whose catalog lives elsewhere.
	ErrExternalCompany = errors.New("company has no local catalog")
)

// Product is a catalog entry of one company.
type Product struct {
	ID          int64     `json:"id"`
	CompanySlug string    `json:"company_slug"`
	Name        string    `json:"name"        validate:"required"`
	Description string    `json:"description"`
	Price       int64     `json:"price"       validate:"gte=0"`
	ImageURL    string    `json:"image_url"   validate:"omitempty,url"`
	CreatedAt   time.Time `json:"created_at"`
}
