package costing

import (
	"context"
	"errors"
	"time"

	"github.com/saborhq/cozinha/internal/entity"
	"gorm.io/gorm"
)

// CatalogSyncer mirrors a recipe's cost/price fields into the public product
// catalog, create-or-update keyed by the recipe id. The recipe row is the
// source of truth; the mirror is best-effort and eventually consistent.
type CatalogSyncer interface {
	SyncProductFromRecipe(ctx context.Context, accountID, recipeID string) error
}

type gormCatalogSync struct {
	db    *gorm.DB
	newID func() string
}

// NewCatalogSync creates a CatalogSyncer over the cost store. newID generates
// product identifiers.
func NewCatalogSync(db *gorm.DB, newID func() string) CatalogSyncer {
	return &gormCatalogSync{db: db, newID: newID}
}

func (s *gormCatalogSync) SyncProductFromRecipe(ctx context.Context, accountID, recipeID string) error {
	var recipe entity.Recipe
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, recipeID).
		First(&recipe).Error
	if err != nil {
		return err
	}

	var product entity.Product
	err = s.db.WithContext(ctx).
		Where("account_id = ? AND recipe_id = ?", accountID, recipeID).
		First(&product).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now()
		product = entity.Product{
			ID:             s.newID(),
			AccountID:      accountID,
			RecipeID:       recipeID,
			Name:           recipe.Name,
			Cost:           recipe.TotalProductionCost,
			SuggestedPrice: recipe.SuggestedPrice,
			Margin:         recipe.Margin,
			Origin:         entity.ProductOriginRecipe,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return s.db.WithContext(ctx).Create(&product).Error
	case err != nil:
		return err
	}

	if product.Name == recipe.Name &&
		product.Cost.Equal(recipe.TotalProductionCost) &&
		product.SuggestedPrice.Equal(recipe.SuggestedPrice) &&
		nullDecimalEqual(product.Margin, recipe.Margin) &&
		product.Origin == entity.ProductOriginRecipe {
		return nil
	}

	return s.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":            recipe.Name,
			"cost":            recipe.TotalProductionCost,
			"suggested_price": recipe.SuggestedPrice,
			"margin":          recipe.Margin,
			"origin":          entity.ProductOriginRecipe,
		}).Error
}
