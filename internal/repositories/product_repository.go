package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"restaurant_pos_backend/internal/models"
)

// ProductRepository defines the interface for menu product database operations.
// Reads return the product joined with its category.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, filters models.ProductFilters) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	CountOrderItems(ctx context.Context, id int64) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.image, p.available, p.category_id, p.created_at, p.updated_at,
	       c.id, c.name, c.description, c.created_at, c.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func scanProduct(row scanner) (*models.Product, error) {
	p := &models.Product{Category: &models.Category{}}
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Available, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&p.Category.ID, &p.Category.Name, &p.Category.Description, &p.Category.CreatedAt, &p.Category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) (int64, error) {
	query := `INSERT INTO products (name, description, price, image, available, category_id)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Image, product.Available, product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return 0, wrapDBError(err, "creating product")
	}
	return product.ID, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product %d: %v", ErrDatabaseError, id, err)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, filters models.ProductFilters) ([]models.Product, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(productSelect)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argCounter))
		args = append(args, *filters.CategoryID)
		argCounter++
	}
	if filters.Available != nil {
		conditions = append(conditions, fmt.Sprintf("p.available = $%d", argCounter))
		args = append(args, *filters.Available)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.name")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	query := `UPDATE products
	          SET name = $1, description = $2, price = $3, image = $4, available = $5, category_id = $6, updated_at = NOW()
	          WHERE id = $7
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Image, product.Available, product.CategoryID, product.ID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return wrapDBError(err, fmt.Sprintf("updating product %d", product.ID))
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("deleting product %d", id))
	}
	return requireAffected(result, "delete product")
}

// CountOrderItems returns how many order lines reference the product.
func (r *productRepository) CountOrderItems(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_items WHERE product_id = $1`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting order items of product %d: %v", ErrDatabaseError, id, err)
	}
	return count, nil
}
