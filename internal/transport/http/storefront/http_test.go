package storefronttransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/corray333/backend-labs/storefront/internal/service/services/authsvc"
	"github.com/corray333/backend-labs/storefront/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/storefront/internal/service/services/productsvc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]order.Order
}

func (r *memOrderRepo) Insert(_ context.Context, d order.Draft) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := order.Order{ID: uuid.New(), CreatedAt: time.Now(), Draft: d}
	r.orders[o.ID] = o

	return o, nil
}

func (r *memOrderRepo) Query(context.Context, order.QueryOrdersModel) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}

	return out, nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id uuid.UUID) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}

	return o, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to order.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.orders[id]
	if o.Status != from {
		return order.ErrInvalidStatusTransition
	}
	o.Status = to
	r.orders[id] = o

	return nil
}

type emptyCatalog struct{}

func (emptyCatalog) ListByCompany(context.Context, string) ([]product.Product, error) { return nil, nil }

func (emptyCatalog) GetByID(context.Context, string, int64) (product.Product, error) {
	return product.Product{}, product.ErrNotFound
}

func (emptyCatalog) Insert(_ context.Context, p product.Product) (product.Product, error) {
	p.ID = 1

	return p, nil
}

func (emptyCatalog) Update(_ context.Context, p product.Product) (product.Product, error) { return p, nil }

func (emptyCatalog) Delete(context.Context, string, int64) error { return product.ErrNotFound }

type stubWake struct{ err error }

func (s stubWake) Broadcast(context.Context, string) error { return s.err }

type stubDB struct{ err error }

func (s stubDB) Ping(context.Context) error { return s.err }

type harness struct {
	server *httptest.Server
	repo   *memOrderRepo
}

func newHarness(t *testing.T, db pinger) harness {
	t.Helper()

	repo := &memOrderRepo{orders: make(map[uuid.UUID]order.Order)}
	transport := NewHTTPTransport(
		ordersvc.MustNewOrderService(ordersvc.WithOrderRepository(repo)),
		productsvc.MustNewProductService(productsvc.WithProductRepository(emptyCatalog{})),
		authsvc.MustNewAuthService(authsvc.WithPassword("letmein")),
		stubWake{},
		db,
	)
	transport.RegisterRoutes()

	srv := httptest.NewServer(transport.Handler())
	t.Cleanup(srv.Close)

	return harness{server: srv, repo: repo}
}

func (h harness) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, h.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func (h harness) login(t *testing.T) string {
	t.Helper()

	resp := h.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"password": "letmein"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session authsvc.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))

	return session.Token
}

func validDraft() order.Draft {
	return order.NewDraft("Neema", "0713 222 333", "Dodoma", []order.Item{
		{ID: 6, Name: "A4 Ream (500 Sheets)", Price: 25000, Quantity: 2},
	})
}

func TestCreateOrder(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodPost, "/api/orders", "", validDraft())

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created order.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, int64(50000), created.TotalPrice)
	assert.Len(t, h.repo.orders, 1)
}

func TestCreateOrder_Rejected(t *testing.T) {
	h := newHarness(t, nil)
	draft := validDraft()
	draft.TotalPrice = 1

	resp := h.do(t, http.MethodPost, "/api/orders", "", draft)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, h.repo.orders)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/api/orders", "", nil).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/api/admin/dashboard", "bogus", nil).StatusCode)
	assert.Equal(t, http.StatusUnauthorized,
		h.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"password": "nope"}).StatusCode)

	token := h.login(t)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/orders", token, nil).StatusCode)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/admin/dashboard", token, nil).StatusCode)
	assert.Equal(t, http.StatusAccepted, h.do(t, http.MethodPost, "/api/admin/sync-broadcast", token, nil).StatusCode)

	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodPost, "/api/admin/logout", token, nil).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/api/orders", token, nil).StatusCode)
}

func TestUpdateStatus_TerminalOrdersAreFinal(t *testing.T) {
	h := newHarness(t, nil)
	token := h.login(t)

	resp := h.do(t, http.MethodPost, "/api/orders", "", validDraft())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created order.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	path := "/api/orders/" + created.ID.String() + "/status"

	resp = h.do(t, http.MethodPatch, path, token, map[string]string{"status": "Cancelled"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(t, http.MethodPatch, path, token, map[string]string{"status": "Processing"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, order.StatusCancelled, h.repo.orders[created.ID].Status)

	resp = h.do(t, http.MethodPatch, path, token, map[string]string{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = h.do(t, http.MethodPatch, "/api/orders/"+uuid.NewString()+"/status", token, map[string]string{"status": "Completed"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalog(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodGet, "/api/companies", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var companies []product.Company
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&companies))
	assert.Len(t, companies, 4)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/companies/zap-gadgets/products", "", nil).StatusCode)
	assert.Equal(t, http.StatusGone, h.do(t, http.MethodGet, "/api/companies/zap-photography/products", "", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/companies/zap-bakery/products", "", nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodGet, "/api/companies/zap-gadgets/products/abc", "", nil).StatusCode)

	newProduct := map[string]any{"name": "Power Bank", "price": 45000}
	assert.Equal(t, http.StatusUnauthorized,
		h.do(t, http.MethodPost, "/api/companies/zap-gadgets/products", "", newProduct).StatusCode)
	assert.Equal(t, http.StatusCreated,
		h.do(t, http.MethodPost, "/api/companies/zap-gadgets/products", h.login(t), newProduct).StatusCode)
}

func TestHealthz(t *testing.T) {
	assert.Equal(t, http.StatusOK, newHarness(t, stubDB{}).do(t, http.MethodGet, "/healthz", "", nil).StatusCode)

	down := newHarness(t, stubDB{err: errors.New("connection refused")})
	assert.Equal(t, http.StatusServiceUnavailable, down.do(t, http.MethodGet, "/healthz", "", nil).StatusCode)
}

func TestSwaggerDoc(t *testing.T) {
	resp := newHarness(t, nil).do(t, http.MethodGet, "/swagger/doc.json", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}
