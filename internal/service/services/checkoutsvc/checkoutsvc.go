package checkoutsvc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iordersink"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/ipendingrepo"
	"github.com/corray333/backend-labs/storefront/internal/service/models/cart"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/pending"
)

// Result is the outcome reported to the customer.
type Result string

const (
	ResultSubmitted     Result = "submitted"
	ResultQueuedOffline Result = "queued_offline"
	ResultSubmitFailed  Result = "submit_failed"
)

type connectivity interface {
	Online() bool
}

type waker interface {
	Arm()
}

// Outcome describes what happened to one checkout attempt.
type Outcome struct {
	Result         Result       `json:"result"`
	Order          *order.Order `json:"order,omitempty"`
	IdempotencyKey string       `json:"idempotency_key,omitempty"`
	TotalPrice     int64        `json:"total_price"`
}

// CheckoutService is the single entry point for placing orders from the cart.
type CheckoutService struct {
	cart         *cart.Cart
	pendingRepo  ipendingrepo.IPendingRepository
	sink         iordersink.IOrderSink
	connectivity connectivity
	wake         waker
	now          func() time.Time

	// One checkout at a time, so a cart is never submitted twice.
	mu sync.Mutex
}

// option is a function that configures the CheckoutService.
type option func(*CheckoutService)

// MustNewCheckoutService creates a new CheckoutService and panics if a dependency is missing.
func MustNewCheckoutService(opts ...option) *CheckoutService {
	s := &CheckoutService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case s.cart == nil:
		panic("checkoutsvc: cart is required")
	case s.pendingRepo == nil:
		panic("checkoutsvc: pending repository is required")
	case s.sink == nil:
		panic("checkoutsvc: order sink is required")
	case s.connectivity == nil:
		panic("checkoutsvc: connectivity signal is required")
	case s.wake == nil:
		panic("checkoutsvc: wake trigger is required")
	}

	return s
}

// WithCart sets the cart that checkout drains.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCart(c *cart.Cart) option {
	return func(s *CheckoutService) {
		s.cart = c
	}
}

// WithPendingRepository sets the durable queue used while offline.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPendingRepository(repo ipendingrepo.IPendingRepository) option {
	return func(s *CheckoutService) {
		s.pendingRepo = repo
	}
}

// WithOrderSink sets the backend used while online.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderSink(sink iordersink.IOrderSink) option {
	return func(s *CheckoutService) {
		s.sink = sink
	}
}

// WithConnectivity sets the online signal.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithConnectivity(c connectivity) option {
	return func(s *CheckoutService) {
		s.connectivity = c
	}
}

// WithWakeTrigger sets the trigger armed after an offline enqueue.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithWakeTrigger(w waker) option {
	return func(s *CheckoutService) {
		s.wake = w
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *CheckoutService) {
		s.now = now
	}
}

// Checkout places the current cart for customer.
//
// Exactly one of direct submission or durable enqueue happens per call. The ordered
// lines leave the cart only when the order was accepted by the backend or written to
// the queue; cart edits made while the order is in flight are kept.
// A *ValidationError is returned before any network or storage access.
func (s *CheckoutService) Checkout(ctx context.Context, customer Customer) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer = customer.normalized()
	if err := validateCheckout(customer, s.cart.IsEmpty()); err != nil {
		return Outcome{}, err
	}

	draft := order.NewDraft(customer.Name, customer.Contact, customer.Location, s.cart.Items())
	outcome := Outcome{TotalPrice: draft.TotalPrice}

	if s.connectivity.Online() {
		created, err := s.sink.Insert(ctx, draft)
		if err != nil {
			slog.WarnContext(ctx, "Order submission failed, cart kept", "error", err)
			outcome.Result = ResultSubmitFailed

			return outcome, fmt.Errorf("failed to submit order: %w", err)
		}

		s.cart.RemoveOrdered(draft.Items)
		outcome.Result = ResultSubmitted
		outcome.Order = &created
		slog.InfoContext(ctx, "Order submitted", "order_id", created.ID, "total_price", draft.TotalPrice)

		return outcome, nil
	}

	po := pending.New(draft, s.now())
	if err := s.pendingRepo.Put(ctx, po); err != nil {
		slog.ErrorContext(ctx, "Failed to queue order while offline, cart kept", "error", err)
		outcome.Result = ResultSubmitFailed

		return outcome, fmt.Errorf("failed to queue order: %w", err)
	}

	s.wake.Arm()
	s.cart.RemoveOrdered(draft.Items)
	outcome.Result = ResultQueuedOffline
	outcome.IdempotencyKey = po.IdempotencyKey
	slog.InfoContext(ctx, "Order queued offline", "idempotency_key", po.IdempotencyKey, "total_price", draft.TotalPrice)

	return outcome, nil
}

// PendingOrders lists orders waiting in the local queue.
func (s *CheckoutService) PendingOrders(ctx context.Context) ([]pending.PendingOrder, error) {
	return s.pendingRepo.ListAll(ctx)
}
