package services

import (
	"context"
	"errors"
	"fmt"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
)

// TableRequest DTO used for create (Number and Capacity required) and partial update.
type TableRequest struct {
	Number   *int    `json:"number"`
	Capacity *int    `json:"capacity"`
	Status   *string `json:"status"`
}

type TableService interface {
	List(ctx context.Context, status *string) ([]models.Table, error)
	Get(ctx context.Context, id int64) (*models.Table, error)
	Create(ctx context.Context, req TableRequest) (*models.Table, error)
	Update(ctx context.Context, id int64, req TableRequest) (*models.Table, error)
	Delete(ctx context.Context, id int64) error
}

type tableService struct {
	tableRepo repositories.TableRepository
}

func NewTableService(tableRepo repositories.TableRepository) TableService {
	return &tableService{tableRepo: tableRepo}
}

func (s *tableService) List(ctx context.Context, status *string) ([]models.Table, error) {
	if status != nil && !models.IsValidTableStatus(*status) {
		return nil, fmt.Errorf("%w: unknown table status %q", ErrValidation, *status)
	}
	tables, err := s.tableRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) Get(ctx context.Context, id int64) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table %d: %w", id, err)
	}
	return table, nil
}

func (s *tableService) Create(ctx context.Context, req TableRequest) (*models.Table, error) {
	if req.Number == nil || req.Capacity == nil {
		return nil, fmt.Errorf("%w: number and capacity are required", ErrValidation)
	}
	table := &models.Table{Number: *req.Number, Capacity: *req.Capacity, Status: models.TableStatusFree}
	if err := s.apply(table, req); err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, table.Number, 0); err != nil {
		return nil, err
	}
	if _, err := s.tableRepo.Create(ctx, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrTableNumberExists
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return table, nil
}

func (s *tableService) Update(ctx context.Context, id int64, req TableRequest) (*models.Table, error) {
	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousNumber := table.Number
	if err := s.apply(table, req); err != nil {
		return nil, err
	}
	if table.Number != previousNumber {
		if err := s.ensureNumberFree(ctx, table.Number, id); err != nil {
			return nil, err
		}
	}
	if err := s.tableRepo.Update(ctx, table); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrTableNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrTableNumberExists
		}
		return nil, fmt.Errorf("failed to update table %d: %w", id, err)
	}
	return table, nil
}

func (s *tableService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.tableRepo.CountOrders(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check table usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w (%d orders)", ErrTableInUse, count)
	}
	if err := s.tableRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrTableNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrTableInUse
		}
		return fmt.Errorf("failed to delete table %d: %w", id, err)
	}
	return nil
}

// apply copies the set fields of req onto table and validates the result.
func (s *tableService) apply(table *models.Table, req TableRequest) error {
	if req.Number != nil {
		table.Number = *req.Number
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Status != nil {
		if !models.IsValidTableStatus(*req.Status) {
			return fmt.Errorf("%w: unknown table status %q", ErrValidation, *req.Status)
		}
		table.Status = models.TableStatus(*req.Status)
	}
	if table.Number <= 0 {
		return fmt.Errorf("%w: table number must be positive", ErrValidation)
	}
	if table.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	return nil
}

func (s *tableService) ensureNumberFree(ctx context.Context, number int, selfID int64) error {
	existing, err := s.tableRepo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check table number: %w", err)
	}
	if existing.ID != selfID {
		return ErrTableNumberExists
	}
	return nil
}
