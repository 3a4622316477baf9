package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/pkg/utils"
)

// CategoryRequest DTO used for create (Name required) and partial update.
type CategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, req CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id int64, req CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, req CategoryRequest) (*models.Category, error) {
	if req.Name == nil || utils.IsEmpty(*req.Name) {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}
	category := &models.Category{Name: strings.TrimSpace(*req.Name)}
	if req.Description != nil {
		category.Description = utils.NewNullString(*req.Description)
	}

	if err := s.ensureNameFree(ctx, category.Name, 0); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCategoryNameExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, req CategoryRequest) (*models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return nil, fmt.Errorf("%w: category name cannot be empty if provided", ErrValidation)
		}
		name := strings.TrimSpace(*req.Name)
		if name != category.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
			category.Name = name
		}
	}
	if req.Description != nil {
		category.Description = utils.NewNullString(*req.Description)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrCategoryNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrCategoryNameExists
		}
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w (%d products)", ErrCategoryInUse, count)
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrCategoryNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}

func (s *categoryService) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if existing.ID != selfID {
		return ErrCategoryNameExists
	}
	return nil
}
