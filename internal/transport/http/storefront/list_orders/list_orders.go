package listorders

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
	"github.com/gorilla/schema"
)

type service interface {
	List(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Status string `schema:"status,omitempty"`
	Limit  int    `schema:"limit,omitempty"`
	Offset int    `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) ToModel() order.QueryOrdersModel {
	return order.QueryOrdersModel{
		Status: order.Status(q.Status),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		slog.Error("Error decoding request", "error", err)

		return
	}

	orders, err := service.List(r.Context(), query.ToModel())
	if err != nil {
		if errors.Is(err, order.ErrInvalidStatus) {
			respond.Error(w, r, http.StatusBadRequest, err)

			return
		}
		respond.Error(w, r, http.StatusInternalServerError, err)
		slog.Error("Error getting orders", "error", err)

		return
	}

	respond.JSON(w, r, http.StatusOK, orders)
}
