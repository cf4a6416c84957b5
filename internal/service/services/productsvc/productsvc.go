package productsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/go-playground/validator/v10"
)

// ProductService manages the per-company catalogs.
type ProductService struct {
	productRepo iproductrepo.IProductRepository
	validate    *validator.Validate
}

// option is a function that configures the ProductService.
type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{validate: validator.New()}
	for _, opt := range opts {
		opt(s)
	}

	if s.productRepo == nil {
		panic("productsvc: product repository is required")
	}

	return s
}

// WithProductRepository sets the product repository for the ProductService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *ProductService) {
		s.productRepo = repo
	}
}

func (s *ProductService) ListCompanies() []product.Company {
	return product.Companies()
}

// ListProducts returns the catalog of a company together with the company itself.
func (s *ProductService) ListProducts(ctx context.Context, slug string) (product.Company, []product.Product, error) {
	company, err := product.CatalogCompany(slug)
	if err != nil {
		return product.Company{}, nil, err
	}

	products, err := s.productRepo.ListByCompany(ctx, company.Slug)
	if err != nil {
		return product.Company{}, nil, err
	}
	if products == nil {
		products = []product.Product{}
	}

	return company, products, nil
}

func (s *ProductService) Get(ctx context.Context, slug string, id int64) (product.Product, error) {
	if _, err := product.CatalogCompany(slug); err != nil {
		return product.Product{}, err
	}

	return s.productRepo.GetByID(ctx, slug, id)
}

func (s *ProductService) Create(ctx context.Context, slug string, p product.Product) (product.Product, error) {
	p, err := s.prepare(slug, p)
	if err != nil {
		return product.Product{}, err
	}

	return s.productRepo.Insert(ctx, p)
}

func (s *ProductService) Update(ctx context.Context, slug string, id int64, p product.Product) (product.Product, error) {
	p, err := s.prepare(slug, p)
	if err != nil {
		return product.Product{}, err
	}
	p.ID = id

	return s.productRepo.Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, slug string, id int64) error {
	if _, err := product.CatalogCompany(slug); err != nil {
		return err
	}

	return s.productRepo.Delete(ctx, slug, id)
}

func (s *ProductService) prepare(slug string, p product.Product) (product.Product, error) {
	if _, err := product.CatalogCompany(slug); err != nil {
		return product.Product{}, err
	}

	p.CompanySlug = slug
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.ImageURL = strings.TrimSpace(p.ImageURL)

	if err := s.validate.Struct(p); err != nil {
		return product.Product{}, fmt.Errorf("%w: %v", product.ErrInvalid, err)
	}

	return p, nil
}
