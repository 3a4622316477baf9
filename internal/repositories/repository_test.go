package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"restaurant_pos_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestTableRepository_CreateDuplicateNumber(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTableRepository(db)

	mock.ExpectQuery(`INSERT INTO dining_tables`).
		WithArgs(5, 4, models.TableStatusFree).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "dining_tables_number_key"})

	_, err := repo.Create(context.Background(), &models.Table{Number: 5, Capacity: 4, Status: models.TableStatusFree})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepository_ListByStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTableRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM dining_tables WHERE status = \$1 ORDER BY number`).
		WithArgs("occupied").
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "capacity", "status", "created_at", "updated_at"}).
			AddRow(2, 7, 6, "occupied", now, now))

	status := "occupied"
	tables, err := repo.List(context.Background(), &status)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, 7, tables[0].Number)
	assert.Equal(t, models.TableStatusOccupied, tables[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryRepository_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepository(db)

	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 9), ErrNotFound)
}

func TestProductRepository_ListWithFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM products p\s+JOIN categories c ON c.id = p.category_id WHERE p.category_id = \$1 AND p.available = \$2`).
		WithArgs(int64(3), true).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "image", "available", "category_id", "created_at", "updated_at",
			"c_id", "c_name", "c_description", "c_created_at", "c_updated_at",
		}).AddRow(11, "Soup", nil, "4.50", "a.png", true, 3, now, now, 3, "Starters", nil, now, now))

	categoryID := int64(3)
	available := true
	products, err := repo.List(context.Background(), models.ProductFilters{CategoryID: &categoryID, Available: &available})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("4.5")))
	require.NotNil(t, products[0].Image)
	assert.Equal(t, "a.png", *products[0].Image)
	require.NotNil(t, products[0].Category)
	assert.Equal(t, "Starters", products[0].Category.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByIDExpandsRelations(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM orders o\s+JOIN dining_tables t .+ WHERE o.id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "status", "total", "notes", "table_id", "waiter_id", "created_at", "updated_at",
			"t_id", "t_number", "t_capacity", "t_status", "t_created_at", "t_updated_at",
			"w_id", "w_username", "w_full_name", "w_role", "w_active", "w_created_at", "w_updated_at",
		}).AddRow(1, "pending", "7.50", nil, 4, 2, now, now,
			4, 12, 4, "occupied", now, now,
			2, "maria", "Maria W", "waiter", true, now, now))
	mock.ExpectQuery(`FROM order_items oi\s+JOIN products p .+ WHERE oi.order_id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "product_id", "quantity", "price", "notes", "status", "created_at", "updated_at",
			"p_id", "p_name", "p_description", "p_price", "p_image", "p_available", "p_category_id", "p_created_at", "p_updated_at",
		}).
			AddRow(10, 1, 5, 2, "2.50", nil, "pending", now, now, 5, "Tea", nil, "2.50", nil, true, 1, now, now).
			AddRow(11, 1, 6, 1, "2.50", "no sugar", "pending", now, now, 6, "Coffee", nil, "2.50", nil, true, 1, now, now))

	order, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("7.50")))
	require.NotNil(t, order.Table)
	assert.Equal(t, 12, order.Table.Number)
	require.NotNil(t, order.Waiter)
	assert.Equal(t, "maria", order.Waiter.Username)
	assert.Empty(t, order.Waiter.PasswordHash)
	require.Len(t, order.OrderItems, 2)
	assert.Equal(t, "Coffee", order.OrderItems[1].Product.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByIDWithoutWaiter(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM orders o`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "status", "total", "notes", "table_id", "waiter_id", "created_at", "updated_at",
			"t_id", "t_number", "t_capacity", "t_status", "t_created_at", "t_updated_at",
			"w_id", "w_username", "w_full_name", "w_role", "w_active", "w_created_at", "w_updated_at",
		}).AddRow(3, "paid", "0", nil, 4, nil, now, now,
			4, 12, 4, "free", now, now,
			nil, nil, nil, nil, nil, nil, nil))
	mock.ExpectQuery(`FROM order_items oi`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, order.WaiterID)
	assert.Nil(t, order.Waiter)
	assert.NotNil(t, order.OrderItems)
	assert.Empty(t, order.OrderItems)
}

func TestOrderRepository_DeleteInTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)
	tx := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM order_items WHERE order_id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM orders WHERE id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var removed int64
	err := tx.WithinTransaction(context.Background(), func(exec SQLExecutor) error {
		var err error
		removed, err = repo.DeleteItemsByOrderID(context.Background(), exec, 8)
		if err != nil {
			return err
		}
		return repo.Delete(context.Background(), exec, 8)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)
	tx := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, time.Now(), time.Now()))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "order_items_product_id_fkey"})
	mock.ExpectRollback()

	err := tx.WithinTransaction(context.Background(), func(exec SQLExecutor) error {
		order := &models.Order{Status: models.OrderStatusPending, Total: decimal.Zero, TableID: 1}
		if _, err := repo.Create(context.Background(), exec, order); err != nil {
			return err
		}
		_, err := repo.CreateItem(context.Background(), exec, &models.OrderItem{OrderID: order.ID, ProductID: 99, Quantity: 1, Status: models.OrderItemStatusPending})
		return err
	})
	assert.ErrorIs(t, err, ErrForeignKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateItemStatusOfOtherOrder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(`UPDATE order_items SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND order_id = \$3`).
		WithArgs(models.OrderItemStatusReady, int64(5), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateItemStatus(context.Background(), 2, 5, models.OrderItemStatusReady)
	assert.ErrorIs(t, err, ErrNotFound)
}
