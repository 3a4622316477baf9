package services

import (
	"context"
	"errors"
	"fmt"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Data Transfer Objects (DTOs) ---

// OrderItemRequest DTO
type OrderItemRequest struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Notes     *string `json:"notes"`
}

// CreateOrderRequest DTO
type CreateOrderRequest struct {
	TableID int64              `json:"tableId"`
	Items   []OrderItemRequest `json:"items"`
	Notes   *string            `json:"notes"`
}

// UpdateOrderRequest DTO. Nil fields are left unchanged.
type UpdateOrderRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// OrderService handles order placement and the order lifecycle. Status values
// may be assigned in any order; only unknown values are rejected.
type OrderService interface {
	List(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	Create(ctx context.Context, waiterID int64, req CreateOrderRequest) (*models.Order, error)
	Update(ctx context.Context, id int64, req UpdateOrderRequest) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error)
	UpdateItemStatus(ctx context.Context, orderID, itemID int64, status string) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	tableRepo   repositories.TableRepository
	productRepo repositories.ProductRepository
	tx          repositories.Transactor
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	tableRepo repositories.TableRepository,
	productRepo repositories.ProductRepository,
	tx repositories.Transactor,
) OrderService {
	return &orderService{orderRepo: orderRepo, tableRepo: tableRepo, productRepo: productRepo, tx: tx}
}

func (s *orderService) List(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	if filters.Status != nil && !models.IsValidOrderStatus(*filters.Status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, *filters.Status)
	}
	orders, err := s.orderRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID from repository: %w", err)
	}
	return order, nil
}

// Create prices every line from the current product price and writes the
// order and its items in one transaction.
func (s *orderService) Create(ctx context.Context, waiterID int64, req CreateOrderRequest) (*models.Order, error) {
	if req.TableID <= 0 {
		return nil, fmt.Errorf("%w: tableId is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", ErrValidation)
	}
	for _, itemReq := range req.Items {
		if itemReq.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for product ID %d must be at least 1", ErrValidation, itemReq.ProductID)
		}
	}

	if _, err := s.tableRepo.GetByID(ctx, req.TableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownTable, req.TableID)
		}
		return nil, fmt.Errorf("failed to check table %d: %w", req.TableID, err)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, itemReq := range req.Items {
		product, err := s.productRepo.GetByID(ctx, itemReq.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %d does not exist", ErrBadRequest, itemReq.ProductID)
			}
			return nil, fmt.Errorf("failed to fetch product %d: %w", itemReq.ProductID, err)
		}
		if !product.Available {
			return nil, fmt.Errorf("%w: %s (ID: %d)", ErrProductUnavailable, product.Name, product.ID)
		}
		item := models.OrderItem{
			ProductID: product.ID,
			Quantity:  itemReq.Quantity,
			Price:     product.Price,
			Notes:     itemReq.Notes,
			Status:    models.OrderItemStatusPending,
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}

	order := &models.Order{
		Status:   models.OrderStatusPending,
		Total:    total,
		Notes:    utils.NewNullString(utils.StringOrEmpty(req.Notes)),
		TableID:  req.TableID,
		WaiterID: &waiterID,
	}
	err := s.tx.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.orderRepo.Create(ctx, exec, order); err != nil {
			return fmt.Errorf("failed to create order record: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
			if _, err := s.orderRepo.CreateItem(ctx, exec, &items[i]); err != nil {
				return fmt.Errorf("failed to create order item (product_id: %d): %w", items[i].ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Order created", map[string]interface{}{
		"order_id": order.ID, "table_id": order.TableID, "items": len(items), "total": total.StringFixed(2),
	})
	return s.Get(ctx, order.ID)
}

func (s *orderService) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		if !models.IsValidOrderStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, *req.Status)
		}
		order.Status = models.OrderStatus(*req.Status)
	}
	if req.Notes != nil {
		order.Notes = utils.NewNullString(*req.Notes)
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order %d: %w", id, err)
	}
	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}
	return s.Update(ctx, id, UpdateOrderRequest{Status: &status})
}

func (s *orderService) UpdateItemStatus(ctx context.Context, orderID, itemID int64, status string) (*models.Order, error) {
	if !models.IsValidOrderItemStatus(status) {
		return nil, fmt.Errorf("%w: unknown order item status %q", ErrValidation, status)
	}
	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateItemStatus(ctx, orderID, itemID, models.OrderItemStatus(status)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to update item %d of order %d: %w", itemID, orderID, err)
	}
	return s.Get(ctx, orderID)
}

// Delete removes the order's items and then the order in one transaction.
func (s *orderService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	var removedItems int64
	err := s.tx.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		n, err := s.orderRepo.DeleteItemsByOrderID(ctx, exec, id)
		if err != nil {
			return fmt.Errorf("failed to delete items of order %d: %w", id, err)
		}
		removedItems = n
		if err := s.orderRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to delete order %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	utils.LogInfo("Order deleted", map[string]interface{}{"order_id": id, "items": removedItems})
	return nil
}
