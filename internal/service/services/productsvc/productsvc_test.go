package productsvc

import (
	"context"
	"testing"

	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListByCompany(ctx context.Context, slug string) ([]product.Product, error) {
	args := m.Called(ctx, slug)
	products, _ := args.Get(0).([]product.Product)

	return products, args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, slug string, id int64) (product.Product, error) {
	args := m.Called(ctx, slug, id)

	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	args := m.Called(ctx, p)

	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p product.Product) (product.Product, error) {
	args := m.Called(ctx, p)

	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, slug string, id int64) error {
	args := m.Called(ctx, slug, id)

	return args.Error(0)
}

func TestListProducts(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("ListByCompany", mock.Anything, "zap-gadgets").Return(nil, nil)
	svc := MustNewProductService(WithProductRepository(repo))

	company, products, err := svc.ListProducts(context.Background(), "zap-gadgets")

	require.NoError(t, err)
	assert.Equal(t, "ZAP Gadgets", company.Name)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListProducts_RejectsUnknownAndExternal(t *testing.T) {
	repo := new(MockProductRepository)
	svc := MustNewProductService(WithProductRepository(repo))

	_, _, err := svc.ListProducts(context.Background(), "zap-bakery")
	assert.ErrorIs(t, err, product.ErrUnknownCompany)

	_, _, err = svc.ListProducts(context.Background(), "zap-photography")
	assert.ErrorIs(t, err, product.ErrExternalCompany)

	repo.AssertNotCalled(t, "ListByCompany", mock.Anything, mock.Anything)
}

func TestCreate_NormalizesAndValidates(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(p product.Product) bool {
		return p.CompanySlug == "zap-stationers" && p.Name == "Gel Pen"
	})).Return(product.Product{ID: 7, CompanySlug: "zap-stationers", Name: "Gel Pen", Price: 1500}, nil)
	svc := MustNewProductService(WithProductRepository(repo))

	created, err := svc.Create(context.Background(), "zap-stationers", product.Product{Name: "  Gel Pen ", Price: 1500})

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	repo.AssertExpectations(t)
}

func TestCreate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   product.Product
	}{
		{name: "blank name", in: product.Product{Name: "   ", Price: 100}},
		{name: "negative price", in: product.Product{Name: "Pen", Price: -1}},
		{name: "bad image url", in: product.Product{Name: "Pen", Price: 1, ImageURL: "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			svc := MustNewProductService(WithProductRepository(repo))

			_, err := svc.Create(context.Background(), "zap-stationers", tt.in)

			assert.ErrorIs(t, err, product.ErrInvalid)
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate_SetsID(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p product.Product) bool {
		return p.ID == 3 && p.CompanySlug == "zap-fragrances"
	})).Return(product.Product{ID: 3}, nil)
	svc := MustNewProductService(WithProductRepository(repo))

	_, err := svc.Update(context.Background(), "zap-fragrances", 3, product.Product{Name: "Oud", Price: 90000})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDelete_PassesNotFound(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("Delete", mock.Anything, "zap-gadgets", int64(99)).Return(product.ErrNotFound)
	svc := MustNewProductService(WithProductRepository(repo))

	err := svc.Delete(context.Background(), "zap-gadgets", 99)

	assert.ErrorIs(t, err, product.ErrNotFound)
}
