package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/jackc/pgx/v5"
)

var columns = []string{"id", "company_slug", "name", "description", "price", "image_url", "created_at"}

// ProductRepository implements the product repository for PostgreSQL.
type ProductRepository struct {
	client *postgres.Client
	sq     sq.StatementBuilderType
}

func NewProductRepository(client *postgres.Client) *ProductRepository {
	return &ProductRepository{
		client: client,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListByCompany returns the catalog of one company, newest first.
func (r *ProductRepository) ListByCompany(ctx context.Context, companySlug string) ([]product.Product, error) {
	query, args, err := r.sq.Select(columns...).
		From("products").
		Where(sq.Eq{"company_slug": companySlug}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, companySlug string, id int64) (product.Product, error) {
	query, args, err := r.sq.Select(columns...).
		From("products").
		Where(sq.Eq{"company_slug": companySlug, "id": id}).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build select query: %w", err)
	}

	return scanProduct(r.client.Pool().QueryRow(ctx, query, args...))
}

func (r *ProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	query, args, err := r.sq.Insert("products").
		Columns("company_slug", "name", "description", "price", "image_url").
		Values(p.CompanySlug, p.Name, p.Description, p.Price, p.ImageURL).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	return scanProduct(r.client.Pool().QueryRow(ctx, query, args...))
}

func (r *ProductRepository) Update(ctx context.Context, p product.Product) (product.Product, error) {
	query, args, err := r.sq.Update("products").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("price", p.Price).
		Set("image_url", p.ImageURL).
		Where(sq.Eq{"company_slug": p.CompanySlug, "id": p.ID}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build update query: %w", err)
	}

	return scanProduct(r.client.Pool().QueryRow(ctx, query, args...))
}

func (r *ProductRepository) Delete(ctx context.Context, companySlug string, id int64) error {
	query, args, err := r.sq.Delete("products").
		Where(sq.Eq{"company_slug": companySlug, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.client.Pool().Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}

	return nil
}

func scanProduct(row pgx.Row) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.CompanySlug, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}
		if postgres.IsUniqueViolation(err) {
			return product.Product{}, fmt.Errorf("%w: %v", product.ErrDuplicate, err)
		}
		if postgres.IsConstraintViolation(err) {
			return product.Product{}, fmt.Errorf("%w: %v", product.ErrInvalid, err)
		}

		return product.Product{}, fmt.Errorf("failed to scan product: %w", err)
	}

	return p, nil
}
