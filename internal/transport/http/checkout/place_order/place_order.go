package placeorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/pending"
	"github.com/corray333/backend-labs/storefront/internal/service/services/checkoutsvc"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

type service interface {
	Checkout(ctx context.Context, customer checkoutsvc.Customer) (checkoutsvc.Outcome, error)
}

type failedResponse struct {
	checkoutsvc.Outcome
	Error string `json:"error"`
}

// PlaceOrder runs checkout for the current cart.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	var customer checkoutsvc.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		slog.Error("Error decoding checkout request", "error", err)

		return
	}

	outcome, err := service.Checkout(r.Context(), customer)
	if err != nil {
		var verr *checkoutsvc.ValidationError
		if errors.As(err, &verr) {
			respond.Error(w, r, http.StatusBadRequest, err, verr.Fields...)

			return
		}

		status := http.StatusBadGateway
		if errors.Is(err, pending.ErrStorageUnavailable) {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(w, r, status, failedResponse{Outcome: outcome, Error: err.Error()})

		return
	}

	switch outcome.Result {
	case checkoutsvc.ResultQueuedOffline:
		respond.JSON(w, r, http.StatusAccepted, outcome)
	default:
		respond.JSON(w, r, http.StatusCreated, outcome)
	}
}
