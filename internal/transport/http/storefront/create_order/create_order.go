package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Insert(ctx context.Context, draft order.Draft) (order.Order, error)
}

// CreateOrder accepts one order from a checkout agent.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	var draft order.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	created, err := service.Insert(r.Context(), draft)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidOrder),
			errors.Is(err, order.ErrTotalMismatch),
			errors.Is(err, order.ErrInvalidStatus):
			respond.Error(w, r, http.StatusBadRequest, err)
			slog.Warn("Rejected order", "error", err)
		default:
			respond.Error(w, r, http.StatusInternalServerError, err)
			slog.Error("Error inserting order", "error", err)
		}

		return
	}

	respond.JSON(w, r, http.StatusCreated, created)
}
