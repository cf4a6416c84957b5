package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	ListCompanies() []product.Company
	ListProducts(ctx context.Context, slug string) (product.Company, []product.Product, error)
	Get(ctx context.Context, slug string, id int64) (product.Product, error)
	Create(ctx context.Context, slug string, p product.Product) (product.Product, error)
	Update(ctx context.Context, slug string, id int64, p product.Product) (product.Product, error)
	Delete(ctx context.Context, slug string, id int64) error
}

type catalogResponse struct {
	Company  product.Company   `json:"company"`
	Products []product.Product `json:"products"`
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url"`
}

func (p productRequest) toModel() product.Product {
	return product.Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
	}
}

func ListCompanies(w http.ResponseWriter, r *http.Request, service service) {
	respond.JSON(w, r, http.StatusOK, service.ListCompanies())
}

func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	company, list, err := service.ListProducts(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, catalogResponse{Company: company, Products: list})
}

func GetProduct(w http.ResponseWriter, r *http.Request, service service) {
	id, err := productID(r)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	p, err := service.Get(r.Context(), chi.URLParam(r, "slug"), id)
	if err != nil {
		writeError(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, p)
}

func CreateProduct(w http.ResponseWriter, r *http.Request, service service) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	created, err := service.Create(r.Context(), chi.URLParam(r, "slug"), req.toModel())
	if err != nil {
		writeError(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusCreated, created)
}

func UpdateProduct(w http.ResponseWriter, r *http.Request, service service) {
	id, err := productID(r)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	updated, err := service.Update(r.Context(), chi.URLParam(r, "slug"), id, req.toModel())
	if err != nil {
		writeError(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, updated)
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, service service) {
	id, err := productID(r)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}

	if err := service.Delete(r.Context(), chi.URLParam(r, "slug"), id); err != nil {
		writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func productID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", chi.URLParam(r, "id"))
	}

	return id, nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, product.ErrUnknownCompany), errors.Is(err, product.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, err)
	case errors.Is(err, product.ErrExternalCompany):
		respond.Error(w, r, http.StatusGone, err)
	case errors.Is(err, product.ErrInvalid):
		respond.Error(w, r, http.StatusBadRequest, err)
	case errors.Is(err, product.ErrDuplicate):
		respond.Error(w, r, http.StatusConflict, err)
	default:
		respond.Error(w, r, http.StatusInternalServerError, err)
		slog.Error("Error handling catalog request", "error", err)
	}
}
