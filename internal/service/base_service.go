package service

import (
	"context"
	"fmt"
	"time"

	"github.com/saborhq/cozinha/internal/costing"
	"github.com/saborhq/cozinha/internal/entity"
	"github.com/saborhq/cozinha/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BaseService struct {
	repo           *repository.BaseRepository
	ingredientRepo *repository.IngredientRepository
	propagator     *costing.Propagator
	logger         *zap.Logger
}

func NewBaseService(repo *repository.BaseRepository, ingredientRepo *repository.IngredientRepository, propagator *costing.Propagator, logger *zap.Logger) *BaseService {
	return &BaseService{
		repo:           repo,
		ingredientRepo: ingredientRepo,
		propagator:     propagator,
		logger:         logger,
	}
}

type BaseLineInput struct {
	IngredientID string          `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
}

type SaveBaseInput struct {
	Name               string          `json:"name" binding:"required"`
	TotalBatchQuantity decimal.Decimal `json:"total_batch_quantity"`
	UnitOfMeasure      string          `json:"unit_of_measure"`
	Notes              string          `json:"notes"`
	Lines              []BaseLineInput `json:"lines"`
}

type BaseListResult struct {
	Items      []entity.Base `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

func (s *BaseService) List(ctx context.Context, accountID string, page, pageSize int) (*BaseListResult, error) {
	items, total, err := s.repo.List(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list bases: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &BaseListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *BaseService) Get(ctx context.Context, accountID, id string) (*entity.Base, error) {
	base, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, fmt.Errorf("find base: %w", err)
	}
	return base, nil
}

func (s *BaseService) Create(ctx context.Context, accountID, userID string, input *SaveBaseInput) (*entity.Base, *costing.Result, error) {
	uom := input.UnitOfMeasure
	if uom == "" {
		uom = entity.UnitKG
	}

	now := time.Now()
	base := &entity.Base{
		ID:                 repository.NewID(),
		AccountID:          accountID,
		Name:               input.Name,
		TotalBatchQuantity: input.TotalBatchQuantity,
		UnitOfMeasure:      uom,
		Notes:              input.Notes,
		CreatedBy:          userID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, base); err != nil {
		return nil, nil, fmt.Errorf("create base: %w", err)
	}

	return s.saveLinesAndRecompute(ctx, accountID, base, input.Lines)
}

// Save replaces the base's row and its whole ingredient-line batch, then lets
// the engine re-derive the totals and cascade into consuming recipes.
func (s *BaseService) Save(ctx context.Context, accountID, id string, input *SaveBaseInput) (*entity.Base, *costing.Result, error) {
	base, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, nil, fmt.Errorf("find base: %w", err)
	}

	base.Name = input.Name
	base.TotalBatchQuantity = input.TotalBatchQuantity
	if input.UnitOfMeasure != "" {
		base.UnitOfMeasure = input.UnitOfMeasure
	}
	base.Notes = input.Notes
	base.UpdatedAt = time.Now()
	base.Lines = nil

	if err := s.repo.Update(ctx, base); err != nil {
		return nil, nil, fmt.Errorf("update base: %w", err)
	}

	return s.saveLinesAndRecompute(ctx, accountID, base, input.Lines)
}

func (s *BaseService) saveLinesAndRecompute(ctx context.Context, accountID string, base *entity.Base, inputs []BaseLineInput) (*entity.Base, *costing.Result, error) {
	now := time.Now()
	lines := make([]entity.BaseIngredientLine, 0, len(inputs))
	for _, in := range inputs {
		ing, err := s.ingredientRepo.FindByID(ctx, accountID, in.IngredientID)
		if err != nil {
			return nil, nil, fmt.Errorf("ingredient %s: %w", in.IngredientID, err)
		}
		unitCost := ing.EffectiveUnitCost()
		lines = append(lines, entity.BaseIngredientLine{
			ID:           repository.NewID(),
			BaseID:       base.ID,
			IngredientID: in.IngredientID,
			Quantity:     in.Quantity,
			UnitCost:     unitCost,
			LineCost:     in.Quantity.Mul(unitCost),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := s.repo.ReplaceLines(ctx, base.ID, lines); err != nil {
		return nil, nil, fmt.Errorf("replace base lines: %w", err)
	}

	result, err := s.propagator.BaseCostChanged(ctx, accountID, base.ID)
	if err != nil {
		s.logger.Error("base cost cascade aborted, downstream recipes are stale",
			zap.String("base_id", base.ID),
			zap.Error(err))
		result = nil
	}

	saved, err := s.repo.FindByID(ctx, accountID, base.ID)
	if err != nil {
		return nil, result, fmt.Errorf("reload base: %w", err)
	}
	return saved, result, nil
}

func (s *BaseService) Delete(ctx context.Context, accountID, id string) error {
	if _, err := s.repo.FindByID(ctx, accountID, id); err != nil {
		return fmt.Errorf("find base: %w", err)
	}
	if err := s.repo.Delete(ctx, accountID, id); err != nil {
		return fmt.Errorf("delete base: %w", err)
	}
	return nil
}
