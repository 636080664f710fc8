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

type IngredientService struct {
	repo       *repository.IngredientRepository
	propagator *costing.Propagator
	logger     *zap.Logger
}

func NewIngredientService(repo *repository.IngredientRepository, propagator *costing.Propagator, logger *zap.Logger) *IngredientService {
	return &IngredientService{repo: repo, propagator: propagator, logger: logger}
}

type CreateIngredientInput struct {
	Name             string          `json:"name" binding:"required"`
	UnitPrice        decimal.Decimal `json:"unit_price" binding:"required"`
	CorrectionFactor decimal.Decimal `json:"correction_factor"`
	UnitOfMeasure    string          `json:"unit_of_measure"`
	Supplier         string          `json:"supplier"`
	Notes            string          `json:"notes"`
}

type UpdateIngredientInput struct {
	Name             string           `json:"name"`
	UnitPrice        *decimal.Decimal `json:"unit_price"`
	CorrectionFactor *decimal.Decimal `json:"correction_factor"`
	UnitOfMeasure    string           `json:"unit_of_measure"`
	Supplier         string           `json:"supplier"`
	Notes            string           `json:"notes"`
}

type IngredientListResult struct {
	Items      []entity.Ingredient `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}

func (s *IngredientService) List(ctx context.Context, accountID string, page, pageSize int) (*IngredientListResult, error) {
	items, total, err := s.repo.List(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &IngredientListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *IngredientService) Get(ctx context.Context, accountID, id string) (*entity.Ingredient, error) {
	ing, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, fmt.Errorf("find ingredient: %w", err)
	}
	return ing, nil
}

func (s *IngredientService) Create(ctx context.Context, accountID, userID string, input *CreateIngredientInput) (*entity.Ingredient, error) {
	factor := input.CorrectionFactor
	if factor.IsZero() {
		factor = decimal.NewFromInt(1)
	}
	uom := input.UnitOfMeasure
	if uom == "" {
		uom = entity.UnitKG
	}

	now := time.Now()
	ing := &entity.Ingredient{
		ID:               repository.NewID(),
		AccountID:        accountID,
		Name:             input.Name,
		UnitPrice:        input.UnitPrice,
		CorrectionFactor: factor,
		UnitOfMeasure:    uom,
		Supplier:         input.Supplier,
		Notes:            input.Notes,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, ing); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return ing, nil
}

// Update commits the edit, then propagates the new effective unit cost through
// every base and recipe consuming the ingredient. The edit itself stands even
// when the propagation partially fails; a nil Result means the cascade could
// not run at all and a sweep or re-edit is needed.
func (s *IngredientService) Update(ctx context.Context, accountID, id string, input *UpdateIngredientInput) (*entity.Ingredient, *costing.Result, error) {
	ing, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, nil, fmt.Errorf("find ingredient: %w", err)
	}

	oldCost := ing.EffectiveUnitCost()

	if input.Name != "" {
		ing.Name = input.Name
	}
	if input.UnitPrice != nil {
		ing.UnitPrice = *input.UnitPrice
	}
	if input.CorrectionFactor != nil {
		ing.CorrectionFactor = *input.CorrectionFactor
	}
	if input.UnitOfMeasure != "" {
		ing.UnitOfMeasure = input.UnitOfMeasure
	}
	if input.Supplier != "" {
		ing.Supplier = input.Supplier
	}
	if input.Notes != "" {
		ing.Notes = input.Notes
	}
	ing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ing); err != nil {
		return nil, nil, fmt.Errorf("update ingredient: %w", err)
	}

	newCost := ing.EffectiveUnitCost()
	if newCost.Equal(oldCost) {
		return ing, nil, nil
	}

	result, err := s.propagator.IngredientCostChanged(ctx, accountID, id, newCost)
	if err != nil {
		s.logger.Error("cost propagation aborted, cached costs are stale until next edit or sweep",
			zap.String("ingredient_id", id),
			zap.Error(err))
		return ing, nil, nil
	}
	return ing, result, nil
}

func (s *IngredientService) Delete(ctx context.Context, accountID, id string) error {
	if _, err := s.repo.FindByID(ctx, accountID, id); err != nil {
		return fmt.Errorf("find ingredient: %w", err)
	}
	if err := s.repo.Delete(ctx, accountID, id); err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}
