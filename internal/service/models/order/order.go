package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrInvalidOrder = errors.New("invalid order")
	// ErrTotalMismatch is returned when total_price differs from the sum of its lines.
	ErrTotalMismatch = errors.New("total price does not match line items")
	// ErrSubmitFailed is returned when the backend rejects an order or cannot be reached.
	ErrSubmitFailed = errors.New("order submission failed")
	// ErrTimeout is a submission failure caused by the backend not answering in time.
	ErrTimeout = fmt.Errorf("%w: timeout", ErrSubmitFailed)
)

var validate = validator.New()

// Item is one ordered line.
type Item struct {
	ID       int64  `json:"id"       validate:"gt=0"`
	Name     string `json:"name"     validate:"required"`
	Price    int64  `json:"price"    validate:"gte=0"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// Draft is the payload accepted by the order sink. It carries no local identity.
type Draft struct {
	CustomerName     string `json:"customer_name"     validate:"required"`
	CustomerContact  string `json:"customer_contact"  validate:"required"`
	CustomerLocation string `json:"customer_location" validate:"required"`
	Items            []Item `json:"items"             validate:"required,min=1,dive"`
	TotalPrice       int64  `json:"total_price"`
	Status           Status `json:"status"`
}

// Order is a draft accepted by the backend.
type Order struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Draft
}

// NewDraft builds a fresh order with status New and the total computed from items.
func NewDraft(name, contact, location string, items []Item) Draft {
	return Draft{
		CustomerName:     name,
		CustomerContact:  contact,
		CustomerLocation: location,
		Items:            items,
		TotalPrice:       TotalOf(items),
		Status:           StatusNew,
	}
}

// TotalOf returns the sum of price*quantity over items.
func TotalOf(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}

	return total
}

// Validate checks a draft received for insertion.
func (d Draft) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if d.Status != StatusNew {
		return fmt.Errorf("%w: new orders must have status %s, got %q", ErrInvalidStatus, StatusNew, d.Status)
	}
	if want := TotalOf(d.Items); d.TotalPrice != want {
		return fmt.Errorf("%w: got %d, want %d", ErrTotalMismatch, d.TotalPrice, want)
	}

	return nil
}
