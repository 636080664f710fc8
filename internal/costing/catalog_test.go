package costing

import (
	"context"
	"testing"

	"github.com/saborhq/cozinha/internal/entity"
	"github.com/saborhq/cozinha/internal/repository"
	"github.com/saborhq/cozinha/internal/testutil"
)

func TestSyncProductCreatesMirror(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	recipe := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "0.5")})

	sync := NewCatalogSync(db, repository.NewID)
	if err := sync.SyncProductFromRecipe(ctx, testutil.TestAccountID, recipe.ID); err != nil {
		t.Fatalf("SyncProductFromRecipe returned error: %v", err)
	}

	var product entity.Product
	if err := db.Where("recipe_id = ?", recipe.ID).First(&product).Error; err != nil {
		t.Fatalf("Failed to load created product: %v", err)
	}
	if product.Name != "Bread" {
		t.Errorf("Product name = %s, want Bread", product.Name)
	}
	if product.Origin != entity.ProductOriginRecipe {
		t.Errorf("Product origin = %s, want %s", product.Origin, entity.ProductOriginRecipe)
	}
	requireDecimal(t, product.Cost, "2", "product cost")
}

func TestSyncProductUpdatesExistingMirror(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	recipe := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "0.5")})
	product := testutil.SeedProduct(t, db, recipe)

	if err := db.Model(recipe).Updates(map[string]interface{}{
		"name":                  "Sourdough",
		"total_production_cost": dec(t, "3"),
	}).Error; err != nil {
		t.Fatalf("Failed to update recipe: %v", err)
	}

	sync := NewCatalogSync(db, repository.NewID)
	if err := sync.SyncProductFromRecipe(ctx, testutil.TestAccountID, recipe.ID); err != nil {
		t.Fatalf("SyncProductFromRecipe returned error: %v", err)
	}

	var got entity.Product
	if err := db.Where("id = ?", product.ID).First(&got).Error; err != nil {
		t.Fatalf("Failed to reload product: %v", err)
	}
	if got.Name != "Sourdough" {
		t.Errorf("Product name = %s, want Sourdough", got.Name)
	}
	requireDecimal(t, got.Cost, "3", "product cost")

	var count int64
	db.Model(&entity.Product{}).Where("recipe_id = ?", recipe.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly one product per recipe, got %d", count)
	}
}

func TestSyncProductIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	recipe := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "0.5")})

	sync := NewCatalogSync(db, repository.NewID)
	if err := sync.SyncProductFromRecipe(ctx, testutil.TestAccountID, recipe.ID); err != nil {
		t.Fatalf("First sync returned error: %v", err)
	}

	var before entity.Product
	if err := db.Where("recipe_id = ?", recipe.ID).First(&before).Error; err != nil {
		t.Fatalf("Failed to load product: %v", err)
	}

	if err := sync.SyncProductFromRecipe(ctx, testutil.TestAccountID, recipe.ID); err != nil {
		t.Fatalf("Second sync returned error: %v", err)
	}

	var after entity.Product
	if err := db.Where("recipe_id = ?", recipe.ID).First(&after).Error; err != nil {
		t.Fatalf("Failed to reload product: %v", err)
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("Second sync touched the row: updated_at moved from %v to %v",
			before.UpdatedAt, after.UpdatedAt)
	}
}

func TestSyncProductUnknownRecipe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	sync := NewCatalogSync(db, repository.NewID)
	if err := sync.SyncProductFromRecipe(ctx, testutil.TestAccountID, "missing"); err == nil {
		t.Fatalf("Expected error for unknown recipe")
	}
}
