package service

import (
	"context"
	"fmt"
	"time"

	"github.com/saborhq/cozinha/internal/entity"
	"github.com/saborhq/cozinha/internal/repository"
	"github.com/shopspring/decimal"
)

type PackagingService struct {
	repo *repository.PackagingRepository
}

func NewPackagingService(repo *repository.PackagingRepository) *PackagingService {
	return &PackagingService{repo: repo}
}

type SavePackagingInput struct {
	Name          string          `json:"name" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"required"`
	UnitOfMeasure string          `json:"unit_of_measure"`
}

type PackagingListResult struct {
	Items      []entity.PackagingItem `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

func (s *PackagingService) List(ctx context.Context, accountID string, page, pageSize int) (*PackagingListResult, error) {
	items, total, err := s.repo.List(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list packaging: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &PackagingListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *PackagingService) Get(ctx context.Context, accountID, id string) (*entity.PackagingItem, error) {
	item, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, fmt.Errorf("find packaging item: %w", err)
	}
	return item, nil
}

func (s *PackagingService) Create(ctx context.Context, accountID, userID string, input *SavePackagingInput) (*entity.PackagingItem, error) {
	uom := input.UnitOfMeasure
	if uom == "" {
		uom = entity.UnitPiece
	}

	now := time.Now()
	item := &entity.PackagingItem{
		ID:            repository.NewID(),
		AccountID:     accountID,
		Name:          input.Name,
		UnitPrice:     input.UnitPrice,
		UnitOfMeasure: uom,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create packaging item: %w", err)
	}
	return item, nil
}

// Update commits the edit. Packaging price changes reach recipes on their next
// save or on a full recompute; there is no automatic packaging cascade.
func (s *PackagingService) Update(ctx context.Context, accountID, id string, input *SavePackagingInput) (*entity.PackagingItem, error) {
	item, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, fmt.Errorf("find packaging item: %w", err)
	}

	item.Name = input.Name
	item.UnitPrice = input.UnitPrice
	if input.UnitOfMeasure != "" {
		item.UnitOfMeasure = input.UnitOfMeasure
	}
	item.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update packaging item: %w", err)
	}
	return item, nil
}

func (s *PackagingService) Delete(ctx context.Context, accountID, id string) error {
	if _, err := s.repo.FindByID(ctx, accountID, id); err != nil {
		return fmt.Errorf("find packaging item: %w", err)
	}
	if err := s.repo.Delete(ctx, accountID, id); err != nil {
		return fmt.Errorf("delete packaging item: %w", err)
	}
	return nil
}
