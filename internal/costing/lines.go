package costing

import (
	"context"
	"errors"

	"github.com/saborhq/cozinha/internal/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineUpdater rewrites the cached (unit_cost, line_cost) pair on single line
// rows. Updates are idempotent: when the stored values already match the
// recomputed ones nothing is written, so re-running a propagation at its fixed
// point produces zero writes.
type LineUpdater interface {
	UpdateBaseIngredientLine(ctx context.Context, ref LineRef, unitCost decimal.Decimal) (bool, error)
	UpdateRecipeIngredientLine(ctx context.Context, ref LineRef, unitCost decimal.Decimal) (bool, error)
	UpdateRecipeBaseLine(ctx context.Context, ref LineRef, unitCost decimal.NullDecimal) (bool, error)
	RepriceBaseLines(ctx context.Context, baseID string) []error
	RepriceRecipeLines(ctx context.Context, recipeID string) []error
}

type gormLineUpdater struct {
	db *gorm.DB
}

// NewLineUpdater creates a LineUpdater over the cost store.
func NewLineUpdater(db *gorm.DB) LineUpdater {
	return &gormLineUpdater{db: db}
}

func (u *gormLineUpdater) UpdateBaseIngredientLine(ctx context.Context, ref LineRef, unitCost decimal.Decimal) (bool, error) {
	var line entity.BaseIngredientLine
	if err := u.db.WithContext(ctx).Where("id = ?", ref.LineID).First(&line).Error; err != nil {
		return false, err
	}
	lineCost := ref.Quantity.Mul(unitCost)
	if line.UnitCost.Equal(unitCost) && line.LineCost.Equal(lineCost) {
		return false, nil
	}
	err := u.db.WithContext(ctx).Model(&entity.BaseIngredientLine{}).
		Where("id = ?", ref.LineID).
		Updates(map[string]interface{}{
			"unit_cost": unitCost,
			"line_cost": lineCost,
		}).Error
	return err == nil, err
}

func (u *gormLineUpdater) UpdateRecipeIngredientLine(ctx context.Context, ref LineRef, unitCost decimal.Decimal) (bool, error) {
	var line entity.RecipeIngredientLine
	if err := u.db.WithContext(ctx).Where("id = ?", ref.LineID).First(&line).Error; err != nil {
		return false, err
	}
	lineCost := ref.Quantity.Mul(unitCost)
	if nullDecimalEqual(line.UnitCost, nullDecimal(unitCost)) &&
		nullDecimalEqual(line.LineCost, nullDecimal(lineCost)) {
		return false, nil
	}
	err := u.db.WithContext(ctx).Model(&entity.RecipeIngredientLine{}).
		Where("id = ?", ref.LineID).
		Updates(map[string]interface{}{
			"unit_cost": unitCost,
			"line_cost": lineCost,
		}).Error
	return err == nil, err
}

// UpdateRecipeBaseLine carries the base's possibly-null unit cost. A null unit
// cost (zero batch quantity) yields a zero line cost, never a null one, so the
// recipe's sum stays well-defined.
func (u *gormLineUpdater) UpdateRecipeBaseLine(ctx context.Context, ref LineRef, unitCost decimal.NullDecimal) (bool, error) {
	var line entity.RecipeBaseLine
	if err := u.db.WithContext(ctx).Where("id = ?", ref.LineID).First(&line).Error; err != nil {
		return false, err
	}
	lineCost := decimal.Zero
	if unitCost.Valid {
		lineCost = ref.Quantity.Mul(unitCost.Decimal)
	}
	if nullDecimalEqual(line.UnitCost, unitCost) &&
		nullDecimalEqual(line.LineCost, nullDecimal(lineCost)) {
		return false, nil
	}
	err := u.db.WithContext(ctx).Model(&entity.RecipeBaseLine{}).
		Where("id = ?", ref.LineID).
		Updates(map[string]interface{}{
			"unit_cost": unitCost,
			"line_cost": lineCost,
		}).Error
	return err == nil, err
}

// RepriceBaseLines re-derives every line of a base from the current ingredient
// rows. Used by the full recompute sweep. Line failures are collected, not
// fatal.
func (u *gormLineUpdater) RepriceBaseLines(ctx context.Context, baseID string) []error {
	var lines []entity.BaseIngredientLine
	if err := u.db.WithContext(ctx).
		Preload("Ingredient").
		Where("base_id = ?", baseID).
		Find(&lines).Error; err != nil {
		return []error{err}
	}

	var errs []error
	for _, line := range lines {
		if line.Ingredient == nil {
			errs = append(errs, &LineUpdateError{
				Table:  entity.BaseIngredientLine{}.TableName(),
				LineID: line.ID,
				Err:    errors.New("ingredient missing"),
			})
			continue
		}
		ref := LineRef{LineID: line.ID, OwnerID: line.BaseID, Quantity: line.Quantity}
		if _, err := u.UpdateBaseIngredientLine(ctx, ref, line.Ingredient.EffectiveUnitCost()); err != nil {
			errs = append(errs, &LineUpdateError{
				Table:  entity.BaseIngredientLine{}.TableName(),
				LineID: line.ID,
				Err:    err,
			})
		}
	}
	return errs
}

// RepriceRecipeLines re-derives all four line kinds of a recipe from the
// current referent rows: ingredient effective costs, base unit costs, inner
// recipe unit costs and packaging prices.
func (u *gormLineUpdater) RepriceRecipeLines(ctx context.Context, recipeID string) []error {
	var errs []error

	var ingLines []entity.RecipeIngredientLine
	if err := u.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id = ?", recipeID).
		Find(&ingLines).Error; err != nil {
		errs = append(errs, err)
	} else {
		for _, line := range ingLines {
			if line.Ingredient == nil {
				continue
			}
			ref := LineRef{LineID: line.ID, OwnerID: line.RecipeID, Quantity: line.Quantity}
			if _, err := u.UpdateRecipeIngredientLine(ctx, ref, line.Ingredient.EffectiveUnitCost()); err != nil {
				errs = append(errs, &LineUpdateError{
					Table:  entity.RecipeIngredientLine{}.TableName(),
					LineID: line.ID,
					Err:    err,
				})
			}
		}
	}

	var baseLines []entity.RecipeBaseLine
	if err := u.db.WithContext(ctx).
		Preload("Base").
		Where("recipe_id = ?", recipeID).
		Find(&baseLines).Error; err != nil {
		errs = append(errs, err)
	} else {
		for _, line := range baseLines {
			if line.Base == nil {
				continue
			}
			ref := LineRef{LineID: line.ID, OwnerID: line.RecipeID, Quantity: line.Quantity}
			if _, err := u.UpdateRecipeBaseLine(ctx, ref, line.Base.UnitCost); err != nil {
				errs = append(errs, &LineUpdateError{
					Table:  entity.RecipeBaseLine{}.TableName(),
					LineID: line.ID,
					Err:    err,
				})
			}
		}
	}

	var subLines []entity.RecipeSubRecipeLine
	if err := u.db.WithContext(ctx).
		Preload("SubRecipe").
		Where("recipe_id = ?", recipeID).
		Find(&subLines).Error; err != nil {
		errs = append(errs, err)
	} else {
		for _, line := range subLines {
			if line.SubRecipe == nil {
				continue
			}
			if err := u.repriceLine(ctx, &entity.RecipeSubRecipeLine{}, line.ID, line.UnitCost, line.LineCost,
				line.Quantity, line.SubRecipe.UnitCost); err != nil {
				errs = append(errs, &LineUpdateError{
					Table:  entity.RecipeSubRecipeLine{}.TableName(),
					LineID: line.ID,
					Err:    err,
				})
			}
		}
	}

	var packLines []entity.RecipePackagingLine
	if err := u.db.WithContext(ctx).
		Preload("Packaging").
		Where("recipe_id = ?", recipeID).
		Find(&packLines).Error; err != nil {
		errs = append(errs, err)
	} else {
		for _, line := range packLines {
			if line.Packaging == nil {
				continue
			}
			if err := u.repriceLine(ctx, &entity.RecipePackagingLine{}, line.ID, line.UnitCost, line.LineCost,
				line.Quantity, line.Packaging.UnitPrice); err != nil {
				errs = append(errs, &LineUpdateError{
					Table:  entity.RecipePackagingLine{}.TableName(),
					LineID: line.ID,
					Err:    err,
				})
			}
		}
	}

	return errs
}

func (u *gormLineUpdater) repriceLine(ctx context.Context, model interface{}, lineID string, storedUnit, storedLine decimal.NullDecimal, quantity, unitCost decimal.Decimal) error {
	lineCost := quantity.Mul(unitCost)
	if nullDecimalEqual(storedUnit, nullDecimal(unitCost)) &&
		nullDecimalEqual(storedLine, nullDecimal(lineCost)) {
		return nil
	}
	return u.db.WithContext(ctx).Model(model).
		Where("id = ?", lineID).
		Updates(map[string]interface{}{
			"unit_cost": unitCost,
			"line_cost": lineCost,
		}).Error
}

func nullDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func nullDecimalEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Decimal.Equal(b.Decimal)
}
