package order

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusNew        Status = "New"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

var (
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNew, StatusProcessing, StatusCompleted, StatusCancelled}

// Cancelled and Completed have no outgoing transitions.
var allowedTransitions = map[Status]map[Status]bool{
	StatusNew: {
		StatusProcessing: true,
		StatusCompleted:  true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusNew:       true,
		StatusCompleted: true,
		StatusCancelled: true,
	},
}

// ParseStatus accepts the exact status names.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CheckTransition returns nil when the order may move from s to next.
// Staying in the same non-terminal status is allowed.
func (s Status) CheckTransition(next Status) error {
	if _, err := ParseStatus(string(next)); err != nil {
		return err
	}
	if s.IsTerminal() {
		return fmt.Errorf("%w: order is %s", ErrInvalidStatusTransition, s)
	}
	if s == next || allowedTransitions[s][next] {
		return nil
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s, next)
}
