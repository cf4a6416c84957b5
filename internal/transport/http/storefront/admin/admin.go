package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/services/authsvc"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

type auth interface {
	Login(password string) (authsvc.Session, error)
	Logout(token string)
	Validate(token string) error
}

type dashboard interface {
	Dashboard(ctx context.Context) (order.SalesStats, error)
}

type broadcaster interface {
	Broadcast(ctx context.Context, source string) error
}

type loginRequest struct {
	Password string `json:"password"`
}

func Login(w http.ResponseWriter, r *http.Request, auth auth) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	session, err := auth.Login(req.Password)
	switch {
	case err == nil:
		respond.JSON(w, r, http.StatusOK, session)
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		respond.Error(w, r, http.StatusUnauthorized, err)
	default:
		respond.Error(w, r, http.StatusServiceUnavailable, err)
	}
}

func Logout(w http.ResponseWriter, r *http.Request, auth auth) {
	auth.Logout(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}

func Dashboard(w http.ResponseWriter, r *http.Request, service dashboard) {
	stats, err := service.Dashboard(r.Context())
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, err)
		slog.Error("Error building dashboard", "error", err)

		return
	}

	respond.JSON(w, r, http.StatusOK, stats)
}

// SyncBroadcast asks every checkout agent to drain its queue.
func SyncBroadcast(w http.ResponseWriter, r *http.Request, b broadcaster) {
	if err := b.Broadcast(r.Context(), "admin"); err != nil {
		respond.Error(w, r, http.StatusBadGateway, err)
		slog.Error("Error broadcasting sync request", "error", err)

		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// NewAuthMiddleware rejects requests without a valid Bearer session token.
func NewAuthMiddleware(auth auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Validate(bearerToken(r)); err != nil {
				respond.Error(w, r, http.StatusUnauthorized, err)

				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}

	return strings.TrimSpace(token)
}
