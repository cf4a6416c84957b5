package checkoutsvc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/repositories/pending/memory"
	"github.com/corray333/backend-labs/storefront/internal/service/models/cart"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/pending"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderSink struct {
	mock.Mock
}

func (m *MockOrderSink) Insert(ctx context.Context, draft order.Draft) (order.Order, error) {
	args := m.Called(ctx, draft)

	return args.Get(0).(order.Order), args.Error(1)
}

type fixedSignal bool

func (f fixedSignal) Online() bool { return bool(f) }

type countingWaker struct{ armed int }

func (w *countingWaker) Arm() { w.armed++ }

// brokenRepo fails every call, like a queue whose storage is gone.
type brokenRepo struct{ calls int }

func (r *brokenRepo) Put(context.Context, pending.PendingOrder) error {
	r.calls++

	return fmt.Errorf("quota exceeded: %w", pending.ErrStorageUnavailable)
}

func (r *brokenRepo) ListAll(context.Context) ([]pending.PendingOrder, error) {
	r.calls++

	return nil, pending.ErrStorageUnavailable
}

func (r *brokenRepo) Remove(context.Context, string) error {
	r.calls++

	return pending.ErrStorageUnavailable
}

var customer = Customer{Name: "Asha Mushi", Contact: "0712 345 678", Location: "Mikocheni B, Dar es Salaam"}

func filledCart() *cart.Cart {
	c := cart.New()
	c.Add(cart.Line{ProductID: 6, Name: "A4 Ream (500 Sheets)", Price: 25000, Quantity: 1})
	c.Add(cart.Line{ProductID: 3, Name: "Designer Sticky Notes", Price: 12500, Quantity: 2})

	return c
}

type fixture struct {
	svc   *CheckoutService
	cart  *cart.Cart
	repo  *memory.PendingRepository
	sink  *MockOrderSink
	waker *countingWaker
}

func newFixture(online bool) fixture {
	f := fixture{
		cart:  filledCart(),
		repo:  memory.NewPendingRepository(),
		sink:  new(MockOrderSink),
		waker: &countingWaker{},
	}
	f.svc = MustNewCheckoutService(
		WithCart(f.cart),
		WithPendingRepository(f.repo),
		WithOrderSink(f.sink),
		WithConnectivity(fixedSignal(online)),
		WithWakeTrigger(f.waker),
		WithClock(func() time.Time { return time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC) }),
	)

	return f
}

func TestCheckout_OfflineQueuesOrder(t *testing.T) {
	f := newFixture(false)

	out, err := f.svc.Checkout(context.Background(), customer)

	require.NoError(t, err)
	assert.Equal(t, ResultQueuedOffline, out.Result)
	assert.Equal(t, int64(50000), out.TotalPrice)
	assert.NotEmpty(t, out.IdempotencyKey)
	assert.True(t, f.cart.IsEmpty())
	assert.Equal(t, 1, f.waker.armed)

	queued, err := f.repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, out.IdempotencyKey, queued[0].IdempotencyKey)
	assert.Equal(t, order.StatusNew, queued[0].Order.Status)
	assert.Equal(t, int64(50000), queued[0].Order.TotalPrice)
	f.sink.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCheckout_OnlineSubmits(t *testing.T) {
	f := newFixture(true)
	id := uuid.New()
	f.sink.On("Insert", mock.Anything, mock.MatchedBy(func(d order.Draft) bool {
		return d.CustomerName == customer.Name &&
			len(d.Items) == 2 &&
			d.TotalPrice == order.TotalOf(d.Items) &&
			d.Status == order.StatusNew
	})).Return(order.Order{ID: id}, nil).Once()

	out, err := f.svc.Checkout(context.Background(), customer)

	require.NoError(t, err)
	assert.Equal(t, ResultSubmitted, out.Result)
	require.NotNil(t, out.Order)
	assert.Equal(t, id, out.Order.ID)
	assert.True(t, f.cart.IsEmpty())
	assert.Equal(t, 0, f.waker.armed)

	queued, err := f.repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, queued)
	f.sink.AssertExpectations(t)
}

func TestCheckout_OnlineFailureKeepsCart(t *testing.T) {
	f := newFixture(true)
	f.sink.On("Insert", mock.Anything, mock.Anything).
		Return(order.Order{}, fmt.Errorf("%w: backend returned 503", order.ErrSubmitFailed)).Once()

	out, err := f.svc.Checkout(context.Background(), customer)

	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrSubmitFailed)
	assert.Equal(t, ResultSubmitFailed, out.Result)
	assert.False(t, f.cart.IsEmpty())
	assert.Len(t, f.cart.Lines(), 2)

	queued, err := f.repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, queued)
}

func TestCheckout_OfflineStorageFailureKeepsCart(t *testing.T) {
	repo := &brokenRepo{}
	c := filledCart()
	w := &countingWaker{}
	svc := MustNewCheckoutService(
		WithCart(c),
		WithPendingRepository(repo),
		WithOrderSink(new(MockOrderSink)),
		WithConnectivity(fixedSignal(false)),
		WithWakeTrigger(w),
	)

	out, err := svc.Checkout(context.Background(), customer)

	assert.ErrorIs(t, err, pending.ErrStorageUnavailable)
	assert.Equal(t, ResultSubmitFailed, out.Result)
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 0, w.armed)
}

func TestCheckout_ValidationTouchesNothing(t *testing.T) {
	tests := []struct {
		name      string
		customer  Customer
		emptyCart bool
		want      []string
	}{
		{
			name:     "missing name",
			customer: Customer{Contact: "0712", Location: "Upanga"},
			want:     []string{"customer_name"},
		},
		{
			name:     "blank contact and location",
			customer: Customer{Name: "Asha", Contact: "   ", Location: ""},
			want:     []string{"customer_contact", "customer_location"},
		},
		{
			name:      "empty cart",
			customer:  customer,
			emptyCart: true,
			want:      []string{"items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &brokenRepo{}
			sink := new(MockOrderSink)
			c := filledCart()
			if tt.emptyCart {
				c.Clear()
			}
			svc := MustNewCheckoutService(
				WithCart(c),
				WithPendingRepository(repo),
				WithOrderSink(sink),
				WithConnectivity(fixedSignal(true)),
				WithWakeTrigger(&countingWaker{}),
			)

			_, err := svc.Checkout(context.Background(), tt.customer)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Fields)
			assert.Equal(t, 0, repo.calls)
			sink.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			assert.Equal(t, tt.emptyCart, c.IsEmpty())
		})
	}
}

func TestMustNewCheckoutService_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { MustNewCheckoutService() })
}

func TestCheckout_KeepsLinesAddedDuringSubmission(t *testing.T) {
	f := newFixture(true)
	started := make(chan struct{})
	release := make(chan struct{})
	var submitted order.Draft
	f.sink.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			submitted = args.Get(1).(order.Draft)
			close(started)
			<-release
		}).
		Return(order.Order{ID: uuid.New()}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Checkout(context.Background(), customer)
		done <- err
	}()

	<-started
	f.cart.Add(cart.Line{ProductID: 99, Name: "Spiral Notebook", Price: 4500, Quantity: 1})
	require.NoError(t, f.cart.UpdateQuantity(6, 3))
	close(release)
	require.NoError(t, <-done)

	for _, it := range submitted.Items {
		assert.NotEqual(t, int64(99), it.ID)
	}
	assert.Equal(t, []cart.Line{
		{ProductID: 6, Name: "A4 Ream (500 Sheets)", Price: 25000, Quantity: 2},
		{ProductID: 99, Name: "Spiral Notebook", Price: 4500, Quantity: 1},
	}, f.cart.Lines())
	f.sink.AssertExpectations(t)
}

func TestCheckout_OfflineRemovesOnlyQueuedLines(t *testing.T) {
	f := newFixture(false)
	f.cart.Add(cart.Line{ProductID: 3, Name: "Designer Sticky Notes", Price: 12500, Quantity: 1})

	out, err := f.svc.Checkout(context.Background(), customer)

	require.NoError(t, err)
	assert.Equal(t, ResultQueuedOffline, out.Result)
	assert.True(t, f.cart.IsEmpty())
}
