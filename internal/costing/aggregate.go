package costing

import (
	"context"

	"github.com/saborhq/cozinha/internal/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BaseTotals is the outcome of a base recompute. Changed reports whether the
// stored totals actually moved; an unchanged recompute writes nothing.
type BaseTotals struct {
	TotalBatchCost decimal.Decimal
	UnitCost       decimal.NullDecimal
	Changed        bool
}

// RecipeTotals is the outcome of a recipe recompute.
type RecipeTotals struct {
	TotalProductionCost decimal.Decimal
	UnitCost            decimal.Decimal
	Changed             bool
}

// Recalculator rewrites an entity's cached totals from its current line state.
// Both methods are pure functions of the stored lines and safe to call
// redundantly; they always read fresh rows rather than trusting anything held
// in memory from a previous run.
type Recalculator interface {
	RecomputeBaseTotals(ctx context.Context, baseID string) (BaseTotals, error)
	RecomputeRecipeTotals(ctx context.Context, recipeID string) (RecipeTotals, error)
}

type gormRecalculator struct {
	db *gorm.DB
}

// NewRecalculator creates a Recalculator over the cost store.
func NewRecalculator(db *gorm.DB) Recalculator {
	return &gormRecalculator{db: db}
}

// RecomputeBaseTotals sums the base's line costs into total_batch_cost and
// derives unit_cost. A zero batch quantity yields a null unit cost rather than
// a division error.
func (r *gormRecalculator) RecomputeBaseTotals(ctx context.Context, baseID string) (BaseTotals, error) {
	var base entity.Base
	if err := r.db.WithContext(ctx).Where("id = ?", baseID).First(&base).Error; err != nil {
		return BaseTotals{}, err
	}

	var lines []entity.BaseIngredientLine
	if err := r.db.WithContext(ctx).Where("base_id = ?", baseID).Find(&lines).Error; err != nil {
		return BaseTotals{}, err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineCost)
	}

	var unitCost decimal.NullDecimal
	if base.TotalBatchQuantity.IsPositive() {
		unitCost = decimal.NullDecimal{
			Decimal: total.Div(base.TotalBatchQuantity).Round(4),
			Valid:   true,
		}
	}

	totals := BaseTotals{TotalBatchCost: total, UnitCost: unitCost}
	if base.TotalBatchCost.Equal(total) && nullDecimalEqual(base.UnitCost, unitCost) {
		return totals, nil
	}

	err := r.db.WithContext(ctx).Model(&entity.Base{}).
		Where("id = ?", baseID).
		Updates(map[string]interface{}{
			"total_batch_cost": total,
			"unit_cost":        unitCost,
		}).Error
	if err != nil {
		return totals, err
	}
	totals.Changed = true
	return totals, nil
}

// RecomputeRecipeTotals sums line costs across all four line kinds into
// total_production_cost. A null line cost counts as zero: recipes saved with
// unpriced lines must not poison the sum. unit_cost mirrors the total (the
// one-portion assumption).
func (r *gormRecalculator) RecomputeRecipeTotals(ctx context.Context, recipeID string) (RecipeTotals, error) {
	var recipe entity.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", recipeID).First(&recipe).Error; err != nil {
		return RecipeTotals{}, err
	}

	total := decimal.Zero

	var ingLines []entity.RecipeIngredientLine
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Find(&ingLines).Error; err != nil {
		return RecipeTotals{}, err
	}
	for _, line := range ingLines {
		if line.LineCost.Valid {
			total = total.Add(line.LineCost.Decimal)
		}
	}

	var baseLines []entity.RecipeBaseLine
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Find(&baseLines).Error; err != nil {
		return RecipeTotals{}, err
	}
	for _, line := range baseLines {
		if line.LineCost.Valid {
			total = total.Add(line.LineCost.Decimal)
		}
	}

	var subLines []entity.RecipeSubRecipeLine
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Find(&subLines).Error; err != nil {
		return RecipeTotals{}, err
	}
	for _, line := range subLines {
		if line.LineCost.Valid {
			total = total.Add(line.LineCost.Decimal)
		}
	}

	var packLines []entity.RecipePackagingLine
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Find(&packLines).Error; err != nil {
		return RecipeTotals{}, err
	}
	for _, line := range packLines {
		if line.LineCost.Valid {
			total = total.Add(line.LineCost.Decimal)
		}
	}

	totals := RecipeTotals{TotalProductionCost: total, UnitCost: total}
	if recipe.TotalProductionCost.Equal(total) && recipe.UnitCost.Equal(total) {
		return totals, nil
	}

	err := r.db.WithContext(ctx).Model(&entity.Recipe{}).
		Where("id = ?", recipeID).
		Updates(map[string]interface{}{
			"total_production_cost": total,
			"unit_cost":             total,
		}).Error
	if err != nil {
		return totals, err
	}
	totals.Changed = true
	return totals, nil
}
