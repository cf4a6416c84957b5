package checkouttransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/cart"
	"github.com/corray333/backend-labs/storefront/internal/service/models/pending"
	"github.com/corray333/backend-labs/storefront/internal/service/services/checkoutsvc"
	carthandlers "github.com/corray333/backend-labs/storefront/internal/transport/http/checkout/cart"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/checkout/network"
	placeorder "github.com/corray333/backend-labs/storefront/internal/transport/http/checkout/place_order"
	syncorders "github.com/corray333/backend-labs/storefront/internal/transport/http/checkout/sync_orders"
	"github.com/corray333/backend-labs/storefront/internal/worker/reconcile"
	"github.com/corray333/backend-labs/storefront/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/viper"
)

type service interface {
	Checkout(ctx context.Context, customer checkoutsvc.Customer) (checkoutsvc.Outcome, error)
	PendingOrders(ctx context.Context) ([]pending.PendingOrder, error)
}

type reconciler interface {
	Reconcile(ctx context.Context) (reconcile.Report, error)
}

type signal interface {
	Online() bool
	Forced() (bool, bool)
	Force(online bool)
	Unforce()
}

// HTTPTransport serves the local checkout API.
type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	service    service
	cart       *cart.Cart
	reconciler reconciler
	signal     signal
}

func NewHTTPTransport(service service, c *cart.Cart, reconciler reconciler, signal signal) *HTTPTransport {
	router := newRouter()

	return &HTTPTransport{
		server: &http.Server{
			Addr:    "127.0.0.1:" + viper.GetString("server.http.port"),
			Handler: router,
		},
		router:     router,
		service:    service,
		cart:       c,
		reconciler: reconciler,
		signal:     signal,
	}
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) { carthandlers.GetCart(w, r, h.cart) })
			r.Delete("/", func(w http.ResponseWriter, r *http.Request) { carthandlers.ClearCart(w, r, h.cart) })
			r.Post("/items", func(w http.ResponseWriter, r *http.Request) { carthandlers.AddItem(w, r, h.cart) })
			r.Patch("/items/{id}", func(w http.ResponseWriter, r *http.Request) { carthandlers.UpdateItem(w, r, h.cart) })
			r.Delete("/items/{id}", func(w http.ResponseWriter, r *http.Request) { carthandlers.RemoveItem(w, r, h.cart) })
		})

		r.Post("/checkout", h.placeOrder)
		r.Post("/sync", h.syncOrders)
		r.Get("/pending", h.listPending)

		r.Get("/connectivity", func(w http.ResponseWriter, r *http.Request) { network.GetStatus(w, r, h.signal) })
		r.Put("/connectivity", func(w http.ResponseWriter, r *http.Request) { network.Force(w, r, h.signal) })
		r.Delete("/connectivity", func(w http.ResponseWriter, r *http.Request) { network.Reset(w, r, h.signal) })
	})
}

func (h *HTTPTransport) placeOrder(w http.ResponseWriter, r *http.Request) {
	placeorder.PlaceOrder(w, r, h.service)
}

func (h *HTTPTransport) syncOrders(w http.ResponseWriter, r *http.Request) {
	syncorders.SyncOrders(w, r, h.reconciler)
}

func (h *HTTPTransport) listPending(w http.ResponseWriter, r *http.Request) {
	syncorders.ListPending(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(trace.NewTraceMiddleware("checkout-agent"))
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	return router
}
