package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/saborhq/cozinha/internal/costing"
	"github.com/saborhq/cozinha/internal/entity"
	"github.com/saborhq/cozinha/internal/repository"
	"gorm.io/gorm"
)

type ProductService struct {
	repo    *repository.ProductRepository
	catalog costing.CatalogSyncer
}

func NewProductService(repo *repository.ProductRepository, catalog costing.CatalogSyncer) *ProductService {
	return &ProductService{repo: repo, catalog: catalog}
}

type ProductListResult struct {
	Items      []entity.Product `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

func (s *ProductService) List(ctx context.Context, accountID string, page, pageSize int) (*ProductListResult, error) {
	items, total, err := s.repo.List(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &ProductListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *ProductService) Get(ctx context.Context, accountID, id string) (*entity.Product, error) {
	product, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetByRecipe(ctx context.Context, accountID, recipeID string) (*entity.Product, error) {
	product, err := s.repo.FindByRecipeID(ctx, accountID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("find product by recipe: %w", err)
	}
	return product, nil
}

// Resync is the manual recovery path after a failed catalog sync: it mirrors
// the recipe's current cost fields into the product again.
func (s *ProductService) Resync(ctx context.Context, accountID, recipeID string) (*entity.Product, error) {
	if err := s.catalog.SyncProductFromRecipe(ctx, accountID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sync product from recipe: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("sync product from recipe: %w", err)
	}
	return s.GetByRecipe(ctx, accountID, recipeID)
}
