package repository

import (
	"context"
	"errors"

	"github.com/saborhq/cozinha/internal/entity"
	"gorm.io/gorm"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) FindByID(ctx context.Context, accountID, id string) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := r.db.WithContext(ctx).
		Preload("IngredientLines").
		Preload("IngredientLines.Ingredient").
		Preload("BaseLines").
		Preload("BaseLines.Base").
		Preload("SubRecipeLines").
		Preload("SubRecipeLines.SubRecipe").
		Preload("PackagingLines").
		Preload("PackagingLines.Packaging").
		Where("account_id = ? AND id = ?", accountID, id).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepository) List(ctx context.Context, accountID, category string, page, size int) ([]entity.Recipe, int64, error) {
	var items []entity.Recipe
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Recipe{}).
		Where("account_id = ?", accountID)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("name ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error
	return items, total, err
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *entity.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *RecipeRepository) Update(ctx context.Context, recipe *entity.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

func (r *RecipeRepository) Delete(ctx context.Context, accountID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&entity.RecipeIngredientLine{},
			&entity.RecipeBaseLine{},
			&entity.RecipeSubRecipeLine{},
			&entity.RecipePackagingLine{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("account_id = ? AND id = ?", accountID, id).
			Delete(&entity.Recipe{}).Error
	})
}

// RecipeLines carries the four line batches replaced together on save.
type RecipeLines struct {
	Ingredients []entity.RecipeIngredientLine
	Bases       []entity.RecipeBaseLine
	SubRecipes  []entity.RecipeSubRecipeLine
	Packaging   []entity.RecipePackagingLine
}

// ReplaceLines swaps all four line batches of a recipe in one transaction.
func (r *RecipeRepository) ReplaceLines(ctx context.Context, recipeID string, lines RecipeLines) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&entity.RecipeIngredientLine{},
			&entity.RecipeBaseLine{},
			&entity.RecipeSubRecipeLine{},
			&entity.RecipePackagingLine{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(model).Error; err != nil {
				return err
			}
		}
		if len(lines.Ingredients) > 0 {
			if err := tx.Create(&lines.Ingredients).Error; err != nil {
				return err
			}
		}
		if len(lines.Bases) > 0 {
			if err := tx.Create(&lines.Bases).Error; err != nil {
				return err
			}
		}
		if len(lines.SubRecipes) > 0 {
			if err := tx.Create(&lines.SubRecipes).Error; err != nil {
				return err
			}
		}
		if len(lines.Packaging) > 0 {
			if err := tx.Create(&lines.Packaging).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
