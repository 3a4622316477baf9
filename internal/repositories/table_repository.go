package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurant_pos_backend/internal/models"
)

// TableRepository defines the interface for dining table database operations.
type TableRepository interface {
	Create(ctx context.Context, table *models.Table) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Table, error)
	GetByNumber(ctx context.Context, number int) (*models.Table, error)
	List(ctx context.Context, status *string) ([]models.Table, error)
	Update(ctx context.Context, table *models.Table) error
	Delete(ctx context.Context, id int64) error
	CountOrders(ctx context.Context, id int64) (int, error)
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

const tableColumns = `id, number, capacity, status, created_at, updated_at`

func scanTable(row scanner) (*models.Table, error) {
	t := &models.Table{}
	if err := row.Scan(&t.ID, &t.Number, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tableRepository) Create(ctx context.Context, table *models.Table) (int64, error) {
	query := `INSERT INTO dining_tables (number, capacity, status) VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, table.Number, table.Capacity, table.Status).
		Scan(&table.ID, &table.CreatedAt, &table.UpdatedAt)
	if err != nil {
		return 0, wrapDBError(err, "creating table")
	}
	return table.ID, nil
}

func (r *tableRepository) GetByID(ctx context.Context, id int64) (*models.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx, `SELECT `+tableColumns+` FROM dining_tables WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table %d: %v", ErrDatabaseError, id, err)
	}
	return t, nil
}

func (r *tableRepository) GetByNumber(ctx context.Context, number int) (*models.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx, `SELECT `+tableColumns+` FROM dining_tables WHERE number = $1`, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table number %d: %v", ErrDatabaseError, number, err)
	}
	return t, nil
}

// List returns tables ordered by number, optionally narrowed to one status.
func (r *tableRepository) List(ctx context.Context, status *string) ([]models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM dining_tables`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	tables := []models.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tables: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) Update(ctx context.Context, table *models.Table) error {
	query := `UPDATE dining_tables SET number = $1, capacity = $2, status = $3, updated_at = NOW()
	          WHERE id = $4
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, table.Number, table.Capacity, table.Status, table.ID).Scan(&table.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return wrapDBError(err, fmt.Sprintf("updating table %d", table.ID))
	}
	return nil
}

func (r *tableRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM dining_tables WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("deleting table %d", id))
	}
	return requireAffected(result, "delete table")
}

// CountOrders returns how many orders reference the table.
func (r *tableRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE table_id = $1`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting orders of table %d: %v", ErrDatabaseError, id, err)
	}
	return count, nil
}
