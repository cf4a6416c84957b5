package cart

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/storefront/internal/service/models/cart"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type cartResponse struct {
	Items      []cart.Line `json:"items"`
	Count      int         `json:"count"`
	TotalPrice int64       `json:"total_price"`
}

func snapshot(c *cart.Cart) cartResponse {
	return cartResponse{Items: c.Lines(), Count: c.Count(), TotalPrice: c.Total()}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the cart contents.
func GetCart(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	respond.JSON(w, r, http.StatusOK, snapshot(c))
}

// AddItem adds a product line or increases its quantity.
func AddItem(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	var line cart.Line
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)
		slog.Error("Error decoding cart item", "error", err)

		return
	}
	if err := validate.Struct(line); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	c.Add(line)
	respond.JSON(w, r, http.StatusOK, snapshot(c))
}

// UpdateItem sets the quantity of a line; zero or less removes it.
func UpdateItem(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	if err := c.UpdateQuantity(id, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			respond.Error(w, r, http.StatusNotFound, err)

			return
		}
		respond.Error(w, r, http.StatusInternalServerError, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, snapshot(c))
}

// RemoveItem drops a line from the cart.
func RemoveItem(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	c.Remove(id)
	respond.JSON(w, r, http.StatusOK, snapshot(c))
}

// ClearCart empties the cart.
func ClearCart(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	c.Clear()
	respond.JSON(w, r, http.StatusOK, snapshot(c))
}
