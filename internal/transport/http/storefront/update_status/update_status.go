package updatestatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type service interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, next order.Status) (order.Order, error)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /orders/{id}/status.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		slog.Error("Error decoding request body for status update", "error", err)

		return
	}

	next, err := order.ParseStatus(req.Status)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	updated, err := service.UpdateStatus(r.Context(), id, next)
	switch {
	case err == nil:
		respond.JSON(w, r, http.StatusOK, updated)
	case errors.Is(err, order.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, err)
	case errors.Is(err, order.ErrInvalidStatusTransition):
		respond.Error(w, r, http.StatusConflict, err)
	default:
		respond.Error(w, r, http.StatusInternalServerError, err)
		slog.Error("Error updating order status", "order_id", id, "error", err)
	}
}
