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

type RecipeService struct {
	repo           *repository.RecipeRepository
	ingredientRepo *repository.IngredientRepository
	baseRepo       *repository.BaseRepository
	packagingRepo  *repository.PackagingRepository
	propagator     *costing.Propagator
	logger         *zap.Logger
}

func NewRecipeService(
	repo *repository.RecipeRepository,
	ingredientRepo *repository.IngredientRepository,
	baseRepo *repository.BaseRepository,
	packagingRepo *repository.PackagingRepository,
	propagator *costing.Propagator,
	logger *zap.Logger,
) *RecipeService {
	return &RecipeService{
		repo:           repo,
		ingredientRepo: ingredientRepo,
		baseRepo:       baseRepo,
		packagingRepo:  packagingRepo,
		propagator:     propagator,
		logger:         logger,
	}
}

type RecipeLineInput struct {
	ReferenceID string          `json:"reference_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

type SaveRecipeInput struct {
	Name            string              `json:"name" binding:"required"`
	Category        string              `json:"category"`
	SuggestedPrice  decimal.Decimal     `json:"suggested_price"`
	Margin          decimal.NullDecimal `json:"margin"`
	Notes           string              `json:"notes"`
	IngredientLines []RecipeLineInput   `json:"ingredient_lines"`
	BaseLines       []RecipeLineInput   `json:"base_lines"`
	SubRecipeLines  []RecipeLineInput   `json:"sub_recipe_lines"`
	PackagingLines  []RecipeLineInput   `json:"packaging_lines"`
}

type RecipeListResult struct {
	Items      []entity.Recipe `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

func (s *RecipeService) List(ctx context.Context, accountID, category string, page, pageSize int) (*RecipeListResult, error) {
	items, total, err := s.repo.List(ctx, accountID, category, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &RecipeListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *RecipeService) Get(ctx context.Context, accountID, id string) (*entity.Recipe, error) {
	recipe, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) Create(ctx context.Context, accountID, userID string, input *SaveRecipeInput) (*entity.Recipe, *costing.Result, error) {
	now := time.Now()
	recipe := &entity.Recipe{
		ID:             repository.NewID(),
		AccountID:      accountID,
		Name:           input.Name,
		Category:       input.Category,
		SuggestedPrice: input.SuggestedPrice,
		Margin:         input.Margin,
		Notes:          input.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, nil, fmt.Errorf("create recipe: %w", err)
	}

	return s.saveLinesAndRecompute(ctx, accountID, recipe, input)
}

// Save replaces the recipe's row and all four line batches, pricing every line
// from the current referent rows, then recomputes the totals and mirrors the
// outcome into the catalog. Nothing outside this recipe is touched.
func (s *RecipeService) Save(ctx context.Context, accountID, id string, input *SaveRecipeInput) (*entity.Recipe, *costing.Result, error) {
	recipe, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, nil, fmt.Errorf("find recipe: %w", err)
	}

	recipe.Name = input.Name
	recipe.Category = input.Category
	recipe.SuggestedPrice = input.SuggestedPrice
	recipe.Margin = input.Margin
	recipe.Notes = input.Notes
	recipe.UpdatedAt = time.Now()
	recipe.IngredientLines = nil
	recipe.BaseLines = nil
	recipe.SubRecipeLines = nil
	recipe.PackagingLines = nil

	if err := s.repo.Update(ctx, recipe); err != nil {
		return nil, nil, fmt.Errorf("update recipe: %w", err)
	}

	return s.saveLinesAndRecompute(ctx, accountID, recipe, input)
}

func (s *RecipeService) saveLinesAndRecompute(ctx context.Context, accountID string, recipe *entity.Recipe, input *SaveRecipeInput) (*entity.Recipe, *costing.Result, error) {
	lines, err := s.priceLines(ctx, accountID, recipe.ID, input)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.ReplaceLines(ctx, recipe.ID, lines); err != nil {
		return nil, nil, fmt.Errorf("replace recipe lines: %w", err)
	}

	result, err := s.propagator.RecipeChanged(ctx, accountID, recipe.ID)
	if err != nil {
		s.logger.Error("recipe recompute failed, cached totals are stale",
			zap.String("recipe_id", recipe.ID),
			zap.Error(err))
	}

	saved, err := s.repo.FindByID(ctx, accountID, recipe.ID)
	if err != nil {
		return nil, result, fmt.Errorf("reload recipe: %w", err)
	}
	return saved, result, nil
}

// priceLines resolves every referent and computes the cached cost pair for
// each line. A base without a unit cost prices its line at zero.
func (s *RecipeService) priceLines(ctx context.Context, accountID, recipeID string, input *SaveRecipeInput) (repository.RecipeLines, error) {
	var lines repository.RecipeLines
	now := time.Now()

	for _, in := range input.IngredientLines {
		ing, err := s.ingredientRepo.FindByID(ctx, accountID, in.ReferenceID)
		if err != nil {
			return lines, fmt.Errorf("ingredient %s: %w", in.ReferenceID, err)
		}
		unitCost := ing.EffectiveUnitCost()
		lines.Ingredients = append(lines.Ingredients, entity.RecipeIngredientLine{
			ID:           repository.NewID(),
			RecipeID:     recipeID,
			IngredientID: in.ReferenceID,
			Quantity:     in.Quantity,
			UnitCost:     decimal.NullDecimal{Decimal: unitCost, Valid: true},
			LineCost:     decimal.NullDecimal{Decimal: in.Quantity.Mul(unitCost), Valid: true},
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	for _, in := range input.BaseLines {
		base, err := s.baseRepo.FindByID(ctx, accountID, in.ReferenceID)
		if err != nil {
			return lines, fmt.Errorf("base %s: %w", in.ReferenceID, err)
		}
		lineCost := decimal.Zero
		if base.UnitCost.Valid {
			lineCost = in.Quantity.Mul(base.UnitCost.Decimal)
		}
		lines.Bases = append(lines.Bases, entity.RecipeBaseLine{
			ID:        repository.NewID(),
			RecipeID:  recipeID,
			BaseID:    in.ReferenceID,
			Quantity:  in.Quantity,
			UnitCost:  base.UnitCost,
			LineCost:  decimal.NullDecimal{Decimal: lineCost, Valid: true},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	for _, in := range input.SubRecipeLines {
		if in.ReferenceID == recipeID {
			return lines, fmt.Errorf("recipe %s cannot use itself as a component", recipeID)
		}
		sub, err := s.repo.FindByID(ctx, accountID, in.ReferenceID)
		if err != nil {
			return lines, fmt.Errorf("sub-recipe %s: %w", in.ReferenceID, err)
		}
		lines.SubRecipes = append(lines.SubRecipes, entity.RecipeSubRecipeLine{
			ID:          repository.NewID(),
			RecipeID:    recipeID,
			SubRecipeID: in.ReferenceID,
			Quantity:    in.Quantity,
			UnitCost:    decimal.NullDecimal{Decimal: sub.UnitCost, Valid: true},
			LineCost:    decimal.NullDecimal{Decimal: in.Quantity.Mul(sub.UnitCost), Valid: true},
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	for _, in := range input.PackagingLines {
		pack, err := s.packagingRepo.FindByID(ctx, accountID, in.ReferenceID)
		if err != nil {
			return lines, fmt.Errorf("packaging %s: %w", in.ReferenceID, err)
		}
		lines.Packaging = append(lines.Packaging, entity.RecipePackagingLine{
			ID:          repository.NewID(),
			RecipeID:    recipeID,
			PackagingID: in.ReferenceID,
			Quantity:    in.Quantity,
			UnitCost:    decimal.NullDecimal{Decimal: pack.UnitPrice, Valid: true},
			LineCost:    decimal.NullDecimal{Decimal: in.Quantity.Mul(pack.UnitPrice), Valid: true},
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	return lines, nil
}

func (s *RecipeService) Delete(ctx context.Context, accountID, id string) error {
	if _, err := s.repo.FindByID(ctx, accountID, id); err != nil {
		return fmt.Errorf("find recipe: %w", err)
	}
	if err := s.repo.Delete(ctx, accountID, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
