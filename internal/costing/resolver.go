package costing

import (
	"context"

	"github.com/saborhq/cozinha/internal/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineRef is one join row found by a reverse-dependency query: the line's own
// id, the entity that owns it and the quantity it consumes. A recipe using the
// same ingredient twice yields two refs with the same OwnerID.
type LineRef struct {
	LineID   string
	OwnerID  string
	Quantity decimal.Decimal
}

// Resolver finds the direct dependents of a costed entity. An empty result is
// the common case, not an error. Store errors propagate as-is; the driver
// treats them as a reason to abort the current cascade level.
type Resolver interface {
	BasesUsingIngredient(ctx context.Context, accountID, ingredientID string) ([]LineRef, error)
	RecipesUsingIngredient(ctx context.Context, accountID, ingredientID string) ([]LineRef, error)
	RecipesUsingBase(ctx context.Context, accountID, baseID string) ([]LineRef, error)
	RecipesUsingSubRecipe(ctx context.Context, accountID, recipeID string) ([]LineRef, error)
	ListBases(ctx context.Context, accountID string) ([]string, error)
	ListRecipes(ctx context.Context, accountID string) ([]string, error)
}

type gormResolver struct {
	db *gorm.DB
}

// NewResolver creates a Resolver over the cost store.
func NewResolver(db *gorm.DB) Resolver {
	return &gormResolver{db: db}
}

func (r *gormResolver) BasesUsingIngredient(ctx context.Context, accountID, ingredientID string) ([]LineRef, error) {
	var lines []entity.BaseIngredientLine
	err := r.db.WithContext(ctx).
		Joins("JOIN bases ON bases.id = base_ingredient_lines.base_id").
		Where("bases.account_id = ? AND base_ingredient_lines.ingredient_id = ?", accountID, ingredientID).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	refs := make([]LineRef, 0, len(lines))
	for _, l := range lines {
		refs = append(refs, LineRef{LineID: l.ID, OwnerID: l.BaseID, Quantity: l.Quantity})
	}
	return refs, nil
}

func (r *gormResolver) RecipesUsingIngredient(ctx context.Context, accountID, ingredientID string) ([]LineRef, error) {
	var lines []entity.RecipeIngredientLine
	err := r.db.WithContext(ctx).
		Joins("JOIN recipes ON recipes.id = recipe_ingredient_lines.recipe_id").
		Where("recipes.account_id = ? AND recipe_ingredient_lines.ingredient_id = ?", accountID, ingredientID).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	refs := make([]LineRef, 0, len(lines))
	for _, l := range lines {
		refs = append(refs, LineRef{LineID: l.ID, OwnerID: l.RecipeID, Quantity: l.Quantity})
	}
	return refs, nil
}

func (r *gormResolver) RecipesUsingBase(ctx context.Context, accountID, baseID string) ([]LineRef, error) {
	var lines []entity.RecipeBaseLine
	err := r.db.WithContext(ctx).
		Joins("JOIN recipes ON recipes.id = recipe_base_lines.recipe_id").
		Where("recipes.account_id = ? AND recipe_base_lines.base_id = ?", accountID, baseID).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	refs := make([]LineRef, 0, len(lines))
	for _, l := range lines {
		refs = append(refs, LineRef{LineID: l.ID, OwnerID: l.RecipeID, Quantity: l.Quantity})
	}
	return refs, nil
}

// RecipesUsingSubRecipe exposes the recipe-to-recipe relation for dependency
// queries. The driver does not cascade over it; a future cascade level can add
// these edges without touching the resolver.
func (r *gormResolver) RecipesUsingSubRecipe(ctx context.Context, accountID, recipeID string) ([]LineRef, error) {
	var lines []entity.RecipeSubRecipeLine
	err := r.db.WithContext(ctx).
		Joins("JOIN recipes ON recipes.id = recipe_subrecipe_lines.recipe_id").
		Where("recipes.account_id = ? AND recipe_subrecipe_lines.sub_recipe_id = ?", accountID, recipeID).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	refs := make([]LineRef, 0, len(lines))
	for _, l := range lines {
		refs = append(refs, LineRef{LineID: l.ID, OwnerID: l.RecipeID, Quantity: l.Quantity})
	}
	return refs, nil
}

func (r *gormResolver) ListBases(ctx context.Context, accountID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entity.Base{}).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *gormResolver) ListRecipes(ctx context.Context, accountID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entity.Recipe{}).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}
