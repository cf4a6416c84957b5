package iproductrepo

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
)

type IProductRepository interface {
	ListByCompany(ctx context.Context, companySlug string) ([]product.Product, error)
	GetByID(ctx context.Context, companySlug string, id int64) (product.Product, error)
	Insert(ctx context.Context, p product.Product) (product.Product, error)
	Update(ctx context.Context, p product.Product) (product.Product, error)
	Delete(ctx context.Context, companySlug string, id int64) error
}
