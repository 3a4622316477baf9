package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_pos_backend/internal/models"

	"github.com/lib/pq"
)

// OrderRepository defines the interface for order and order item database operations.
// Methods taking an SQLExecutor participate in the caller's transaction.
// Reads return orders expanded with their table, waiter and items→product.
type OrderRepository interface {
	Create(ctx context.Context, executor SQLExecutor, order *models.Order) (int64, error)
	CreateItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	UpdateItemStatus(ctx context.Context, orderID, itemID int64, status models.OrderItemStatus) error
	DeleteItemsByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error)
	Delete(ctx context.Context, executor SQLExecutor, id int64) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.status, o.total, o.notes, o.table_id, o.waiter_id, o.created_at, o.updated_at,
	       t.id, t.number, t.capacity, t.status, t.created_at, t.updated_at,
	       w.id, w.username, w.full_name, w.role, w.active, w.created_at, w.updated_at
	FROM orders o
	JOIN dining_tables t ON t.id = o.table_id
	LEFT JOIN users w ON w.id = o.waiter_id`

func scanOrder(row scanner) (*models.Order, error) {
	o := &models.Order{Table: &models.Table{}, OrderItems: []models.OrderItem{}}
	var (
		waiterID                   sql.NullInt64
		waiterUsername, waiterName sql.NullString
		waiterRole                 sql.NullString
		waiterActive               sql.NullBool
		waiterCreated, waiterUpd   sql.NullTime
	)
	err := row.Scan(
		&o.ID, &o.Status, &o.Total, &o.Notes, &o.TableID, &o.WaiterID, &o.CreatedAt, &o.UpdatedAt,
		&o.Table.ID, &o.Table.Number, &o.Table.Capacity, &o.Table.Status, &o.Table.CreatedAt, &o.Table.UpdatedAt,
		&waiterID, &waiterUsername, &waiterName, &waiterRole, &waiterActive, &waiterCreated, &waiterUpd,
	)
	if err != nil {
		return nil, err
	}
	if waiterID.Valid {
		o.Waiter = &models.User{
			ID:        waiterID.Int64,
			Username:  waiterUsername.String,
			FullName:  waiterName.String,
			Role:      models.Role(waiterRole.String),
			Active:    waiterActive.Bool,
			CreatedAt: waiterCreated.Time,
			UpdatedAt: waiterUpd.Time,
		}
	}
	return o, nil
}

// Create inserts the order row. ID and timestamps are filled from the inserted row.
func (r *orderRepository) Create(ctx context.Context, executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders (status, total, notes, table_id, waiter_id)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRowContext(ctx, query, order.Status, order.Total, order.Notes, order.TableID, order.WaiterID).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return 0, wrapDBError(err, "creating order")
	}
	return order.ID, nil
}

func (r *orderRepository) CreateItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items (order_id, product_id, quantity, price, notes, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRowContext(ctx, query,
		item.OrderID, item.ProductID, item.Quantity, item.Price, item.Notes, item.Status,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return 0, wrapDBError(err, fmt.Sprintf("creating item for order %d", item.OrderID))
	}
	return item.ID, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order %d: %v", ErrDatabaseError, id, err)
	}
	if err := r.attachItems(ctx, []*models.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// List returns orders newest first, with optional table, waiter and status filters.
func (r *orderRepository) List(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(orderSelect)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("o.table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
		argCounter++
	}
	if filters.WaiterID != nil {
		conditions = append(conditions, fmt.Sprintf("o.waiter_id = $%d", argCounter))
		args = append(args, *filters.WaiterID)
		argCounter++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC, o.id DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var ptrs []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		ptrs = append(ptrs, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating orders: %v", ErrDatabaseError, err)
	}
	rows.Close()

	if err := r.attachItems(ctx, ptrs); err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(ptrs))
	for _, o := range ptrs {
		orders = append(orders, *o)
	}
	return orders, nil
}

// attachItems loads the items of all given orders in one query.
func (r *orderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.notes, oi.status, oi.created_at, oi.updated_at,
		       p.id, p.name, p.description, p.price, p.image, p.available, p.category_id, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: loading order items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		p := &models.Product{}
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price, &item.Notes, &item.Status, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Available, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("%w: scanning order item: %v", ErrDatabaseError, err)
		}
		item.Product = p
		if o, ok := byID[item.OrderID]; ok {
			o.OrderItems = append(o.OrderItems, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating order items: %v", ErrDatabaseError, err)
	}
	return nil
}

// Update writes status and notes. Total is never recomputed.
func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	query := `UPDATE orders SET status = $1, notes = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, order.Status, order.Notes, order.ID).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return wrapDBError(err, fmt.Sprintf("updating order %d", order.ID))
	}
	order.UpdatedAt = updatedAt
	return nil
}

// UpdateItemStatus returns ErrNotFound unless itemID belongs to orderID.
func (r *orderRepository) UpdateItemStatus(ctx context.Context, orderID, itemID int64, status models.OrderItemStatus) error {
	query := `UPDATE order_items SET status = $1, updated_at = NOW() WHERE id = $2 AND order_id = $3`
	result, err := r.db.ExecContext(ctx, query, status, itemID, orderID)
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("updating status of item %d", itemID))
	}
	return requireAffected(result, "update order item status")
}

func (r *orderRepository) DeleteItemsByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error) {
	result, err := executor.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return 0, wrapDBError(err, fmt.Sprintf("deleting items of order %d", orderID))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for order items delete: %v", ErrDatabaseError, err)
	}
	return rowsAffected, nil
}

func (r *orderRepository) Delete(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("deleting order %d", id))
	}
	return requireAffected(result, "delete order")
}
