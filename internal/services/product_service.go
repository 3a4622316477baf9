package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/internal/storage"
	"restaurant_pos_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// ImageStore persists product images. Implemented by storage.ImageStore.
type ImageStore interface {
	Save(r io.Reader) (string, error)
	Delete(name string) error
}

// ProductRequest DTO used for create (Name, Price, CategoryID required) and partial update.
type ProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Available   *bool            `json:"available"`
	CategoryID  *int64           `json:"categoryId"`
}

type ProductService interface {
	List(ctx context.Context, filters models.ProductFilters) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	// Create and Update accept an optional image; nil leaves the image untouched.
	Create(ctx context.Context, req ProductRequest, image io.Reader) (*models.Product, error)
	Update(ctx context.Context, id int64, req ProductRequest, image io.Reader) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	images       ImageStore
}

func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, images ImageStore) ProductService {
	return &productService{productRepo: productRepo, categoryRepo: categoryRepo, images: images}
}

func (s *productService) List(ctx context.Context, filters models.ProductFilters) ([]models.Product, error) {
	products, err := s.productRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return product, nil
}

// Create stores the image first. Any later failure removes it again.
func (s *productService) Create(ctx context.Context, req ProductRequest, image io.Reader) (*models.Product, error) {
	if req.Name == nil || req.Price == nil || req.CategoryID == nil {
		return nil, fmt.Errorf("%w: name, price and categoryId are required", ErrValidation)
	}
	product := &models.Product{Available: true}
	if err := applyProductFields(product, req); err != nil {
		return nil, err
	}

	stored, err := s.saveImage(image)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		product.Image = &stored
	}

	category, err := s.lookupCategory(ctx, product.CategoryID)
	if err != nil {
		s.discardImage(stored)
		return nil, err
	}
	product.Category = category

	if _, err := s.productRepo.Create(ctx, product); err != nil {
		s.discardImage(stored)
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update replaces the image only after the row is written; the previous file is removed last.
func (s *productService) Update(ctx context.Context, id int64, req ProductRequest, image io.Reader) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCategory := product.CategoryID
	previousImage := product.Image
	if err := applyProductFields(product, req); err != nil {
		return nil, err
	}

	stored, err := s.saveImage(image)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		product.Image = &stored
	}

	if product.CategoryID != previousCategory {
		category, err := s.lookupCategory(ctx, product.CategoryID)
		if err != nil {
			s.discardImage(stored)
			return nil, err
		}
		product.Category = category
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.discardImage(stored)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	if stored != "" && previousImage != nil {
		s.discardImage(*previousImage)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.productRepo.CountOrderItems(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check product usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w (%d order items)", ErrProductInUse, count)
	}

	if product.Image != nil {
		s.discardImage(*product.Image)
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrProductNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrProductInUse
		}
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

func (s *productService) lookupCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownCategory, id)
		}
		return nil, fmt.Errorf("failed to check category %d: %w", id, err)
	}
	return category, nil
}

// saveImage returns "" when there is no image.
func (s *productService) saveImage(image io.Reader) (string, error) {
	if image == nil {
		return "", nil
	}
	name, err := s.images.Save(image)
	if err != nil {
		if errors.Is(err, storage.ErrImageTooLarge) || errors.Is(err, storage.ErrUnsupportedImage) || errors.Is(err, storage.ErrEmptyImage) {
			return "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return name, nil
}

func (s *productService) discardImage(name string) {
	if name == "" {
		return
	}
	if err := s.images.Delete(name); err != nil {
		utils.LogWarn(err, "Failed to remove product image", map[string]interface{}{"image": name})
	}
}

func applyProductFields(product *models.Product, req ProductRequest) error {
	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return fmt.Errorf("%w: product name cannot be empty", ErrValidation)
		}
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = utils.NewNullString(*req.Description)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		product.Price = req.Price.Round(2)
	}
	if req.Available != nil {
		product.Available = *req.Available
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	return nil
}
