package storefronttransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/api"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/corray333/backend-labs/storefront/internal/service/services/authsvc"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/storefront/admin"
	createorder "github.com/corray333/backend-labs/storefront/internal/transport/http/storefront/create_order"
	listorders "github.com/corray333/backend-labs/storefront/internal/transport/http/storefront/list_orders"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/storefront/products"
	updatestatus "github.com/corray333/backend-labs/storefront/internal/transport/http/storefront/update_status"
	"github.com/corray333/backend-labs/storefront/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type orderService interface {
	Insert(ctx context.Context, draft order.Draft) (order.Order, error)
	List(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next order.Status) (order.Order, error)
	Dashboard(ctx context.Context) (order.SalesStats, error)
}

type productService interface {
	ListCompanies() []product.Company
	ListProducts(ctx context.Context, slug string) (product.Company, []product.Product, error)
	Get(ctx context.Context, slug string, id int64) (product.Product, error)
	Create(ctx context.Context, slug string, p product.Product) (product.Product, error)
	Update(ctx context.Context, slug string, id int64, p product.Product) (product.Product, error)
	Delete(ctx context.Context, slug string, id int64) error
}

type authService interface {
	Login(password string) (authsvc.Session, error)
	Logout(token string)
	Validate(token string) error
}

type wakeService interface {
	Broadcast(ctx context.Context, source string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HTTPTransport serves the storefront backend API.
type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	orders   orderService
	products productService
	auth     authService
	wake     wakeService
	db       pinger
}

func NewHTTPTransport(
	orders orderService,
	products productService,
	auth authService,
	wake wakeService,
	db pinger,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		orders:   orders,
		products: products,
		auth:     auth,
		wake:     wake,
		db:       db,
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
	requireAdmin := admin.NewAuthMiddleware(h.auth)

	h.router.Get("/healthz", h.healthz)
	h.router.Get("/swagger/doc.json", serveOpenAPI)
	h.router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	h.router.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.createOrder)
		r.With(requireAdmin).Get("/orders", h.listOrders)
		r.With(requireAdmin).Patch("/orders/{id}/status", h.updateStatus)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", func(w http.ResponseWriter, r *http.Request) { admin.Login(w, r, h.auth) })
			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/logout", func(w http.ResponseWriter, r *http.Request) { admin.Logout(w, r, h.auth) })
				r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) { admin.Dashboard(w, r, h.orders) })
				r.Post("/sync-broadcast", func(w http.ResponseWriter, r *http.Request) { admin.SyncBroadcast(w, r, h.wake) })
			})
		})

		r.Get("/companies", func(w http.ResponseWriter, r *http.Request) { products.ListCompanies(w, r, h.products) })
		r.Route("/companies/{slug}/products", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) { products.ListProducts(w, r, h.products) })
			r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { products.GetProduct(w, r, h.products) })
			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", func(w http.ResponseWriter, r *http.Request) { products.CreateProduct(w, r, h.products) })
				r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) { products.UpdateProduct(w, r, h.products) })
				r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { products.DeleteProduct(w, r, h.products) })
			})
		})
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.orders)
}

// healthz answers 503 while the database is unreachable.
func (h *HTTPTransport) healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			slog.Warn("Health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)

			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(api.OpenAPI)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(trace.NewTraceMiddleware("storefront-api"))
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	c := cors.New(cors.Options{
		AllowedOrigins:   viper.GetStringSlice("server.http.cors.allowed_origins"),
		AllowedMethods:   viper.GetStringSlice("server.http.cors.allowed_methods"),
		AllowedHeaders:   viper.GetStringSlice("server.http.cors.allowed_headers"),
		ExposedHeaders:   viper.GetStringSlice("server.http.cors.exposed_headers"),
		AllowCredentials: viper.GetBool("server.http.cors.allow_credentials"),
		MaxAge:           viper.GetInt("server.http.cors.max_age"),
	})
	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
