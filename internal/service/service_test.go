package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/saborhq/cozinha/internal/entity"
	"github.com/saborhq/cozinha/internal/repository"
	"github.com/saborhq/cozinha/internal/testutil"
)

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewServices(db, repos, nil, zap.NewNop()), db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestIngredientUpdatePropagates(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "3.80"))
	dough := testutil.SeedBase(t, db, "Dough", dec(t, "2"),
		testutil.BaseLineSpec{Ingredient: flour, Quantity: dec(t, "2")})
	bread := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Base: dough, Quantity: dec(t, "0.5")})

	newPrice := dec(t, "4.00")
	ing, result, err := svc.Ingredient.Update(ctx, testutil.TestAccountID, flour.ID,
		&UpdateIngredientInput{UnitPrice: &newPrice})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !ing.UnitPrice.Equal(newPrice) {
		t.Errorf("Stored unit price = %s, want 4.00", ing.UnitPrice)
	}
	if result == nil {
		t.Fatalf("Expected a propagation result for a price change")
	}
	if result.BasesUpdated != 1 || result.RecipesUpdated != 1 {
		t.Errorf("Result = %+v, want 1 base and 1 recipe updated", result)
	}

	var gotRecipe entity.Recipe
	if err := db.Where("id = ?", bread.ID).First(&gotRecipe).Error; err != nil {
		t.Fatalf("Failed to reload recipe: %v", err)
	}
	if !gotRecipe.TotalProductionCost.Equal(dec(t, "2.00")) {
		t.Errorf("Recipe total = %s, want 2.00", gotRecipe.TotalProductionCost)
	}
}

func TestIngredientUpdateWithoutCostChangeSkipsPropagation(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "3.80"))

	ing, result, err := svc.Ingredient.Update(ctx, testutil.TestAccountID, flour.ID,
		&UpdateIngredientInput{Name: "Wheat Flour"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if ing.Name != "Wheat Flour" {
		t.Errorf("Name = %s, want Wheat Flour", ing.Name)
	}
	if result != nil {
		t.Errorf("Expected nil result for a name-only edit, got %+v", result)
	}
}

func TestIngredientCorrectionFactorChangePropagates(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	dough := testutil.SeedBase(t, db, "Dough", dec(t, "2"),
		testutil.BaseLineSpec{Ingredient: flour, Quantity: dec(t, "2")})

	// 10% waste: effective cost rises to 4.40 with the price untouched.
	factor := dec(t, "1.10")
	_, result, err := svc.Ingredient.Update(ctx, testutil.TestAccountID, flour.ID,
		&UpdateIngredientInput{CorrectionFactor: &factor})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if result == nil || result.BasesUpdated != 1 {
		t.Fatalf("Expected the base to be updated, got %+v", result)
	}

	var gotBase entity.Base
	if err := db.Where("id = ?", dough.ID).First(&gotBase).Error; err != nil {
		t.Fatalf("Failed to reload base: %v", err)
	}
	if !gotBase.TotalBatchCost.Equal(dec(t, "8.80")) {
		t.Errorf("Base total = %s, want 8.80", gotBase.TotalBatchCost)
	}
}

func TestBaseSaveCascadesIntoRecipes(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	dough := testutil.SeedBase(t, db, "Dough", dec(t, "2"),
		testutil.BaseLineSpec{Ingredient: flour, Quantity: dec(t, "2")})
	bread := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Base: dough, Quantity: dec(t, "0.5")})

	saved, result, err := svc.Base.Save(ctx, testutil.TestAccountID, dough.ID, &SaveBaseInput{
		Name:               "Dough",
		TotalBatchQuantity: dec(t, "4"),
		Lines: []BaseLineInput{
			{IngredientID: flour.ID, Quantity: dec(t, "2")},
		},
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !saved.UnitCost.Valid || !saved.UnitCost.Decimal.Equal(dec(t, "2")) {
		t.Errorf("Base unit cost = %+v, want 2", saved.UnitCost)
	}
	if result == nil || result.RecipesUpdated != 1 {
		t.Fatalf("Expected the consuming recipe to be updated, got %+v", result)
	}

	var gotRecipe entity.Recipe
	if err := db.Where("id = ?", bread.ID).First(&gotRecipe).Error; err != nil {
		t.Fatalf("Failed to reload recipe: %v", err)
	}
	if !gotRecipe.TotalProductionCost.Equal(dec(t, "1")) {
		t.Errorf("Recipe total = %s, want 1", gotRecipe.TotalProductionCost)
	}
}

func TestRecipeCreatePricesAllLineKinds(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	dough := testutil.SeedBase(t, db, "Dough", dec(t, "2"),
		testutil.BaseLineSpec{Ingredient: flour, Quantity: dec(t, "2")})
	box := testutil.SeedPackaging(t, db, "Box", dec(t, "0.50"))
	filling := testutil.SeedRecipe(t, db, "Filling",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "1")})

	saved, result, err := svc.Recipe.Create(ctx, testutil.TestAccountID, "user-1", &SaveRecipeInput{
		Name: "Pie",
		IngredientLines: []RecipeLineInput{
			{ReferenceID: flour.ID, Quantity: dec(t, "0.25")},
		},
		BaseLines: []RecipeLineInput{
			{ReferenceID: dough.ID, Quantity: dec(t, "0.5")},
		},
		SubRecipeLines: []RecipeLineInput{
			{ReferenceID: filling.ID, Quantity: dec(t, "1")},
		},
		PackagingLines: []RecipeLineInput{
			{ReferenceID: box.ID, Quantity: dec(t, "2")},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	// 1 + 2 + 4 + 1
	if !saved.TotalProductionCost.Equal(dec(t, "8")) {
		t.Errorf("Recipe total = %s, want 8", saved.TotalProductionCost)
	}
	if result == nil || result.RecipesUpdated != 1 || result.ProductsSynced != 1 {
		t.Errorf("Result = %+v, want the recipe totals written and the product mirrored", result)
	}

	var product entity.Product
	if err := db.Where("recipe_id = ?", saved.ID).First(&product).Error; err != nil {
		t.Fatalf("Failed to load mirrored product: %v", err)
	}
	if !product.Cost.Equal(dec(t, "8")) {
		t.Errorf("Product cost = %s, want 8", product.Cost)
	}
}

func TestRecipeSavePriceOnlyEditReachesCatalog(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))

	saved, _, err := svc.Recipe.Create(ctx, testutil.TestAccountID, "user-1", &SaveRecipeInput{
		Name:           "Bread",
		SuggestedPrice: dec(t, "10"),
		IngredientLines: []RecipeLineInput{
			{ReferenceID: flour.ID, Quantity: dec(t, "0.5")},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Identical lines, new price: the cost does not move but the mirror must.
	_, _, err = svc.Recipe.Save(ctx, testutil.TestAccountID, saved.ID, &SaveRecipeInput{
		Name:           "Bread",
		SuggestedPrice: dec(t, "12"),
		IngredientLines: []RecipeLineInput{
			{ReferenceID: flour.ID, Quantity: dec(t, "0.5")},
		},
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	var product entity.Product
	if err := db.Where("recipe_id = ?", saved.ID).First(&product).Error; err != nil {
		t.Fatalf("Failed to load product: %v", err)
	}
	if !product.SuggestedPrice.Equal(dec(t, "12")) {
		t.Errorf("Product suggested price = %s, want 12", product.SuggestedPrice)
	}
	if !product.Cost.Equal(dec(t, "2")) {
		t.Errorf("Product cost = %s, want 2", product.Cost)
	}
}

func TestRecipeSaveRejectsSelfReference(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	recipe := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "0.5")})

	_, _, err := svc.Recipe.Save(ctx, testutil.TestAccountID, recipe.ID, &SaveRecipeInput{
		Name: "Bread",
		SubRecipeLines: []RecipeLineInput{
			{ReferenceID: recipe.ID, Quantity: dec(t, "1")},
		},
	})
	if err == nil {
		t.Fatalf("Expected an error for a recipe using itself as a component")
	}
}

func TestRecipeSaveEditDoesNotTouchBase(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	dough := testutil.SeedBase(t, db, "Dough", dec(t, "2"),
		testutil.BaseLineSpec{Ingredient: flour, Quantity: dec(t, "2")})
	bread := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Base: dough, Quantity: dec(t, "0.5")})

	baseBefore, err := svc.Base.Get(ctx, testutil.TestAccountID, dough.ID)
	if err != nil {
		t.Fatalf("Failed to load base: %v", err)
	}

	if _, _, err := svc.Recipe.Save(ctx, testutil.TestAccountID, bread.ID, &SaveRecipeInput{
		Name: "Bread",
		BaseLines: []RecipeLineInput{
			{ReferenceID: dough.ID, Quantity: dec(t, "1")},
		},
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	baseAfter, err := svc.Base.Get(ctx, testutil.TestAccountID, dough.ID)
	if err != nil {
		t.Fatalf("Failed to reload base: %v", err)
	}
	if !baseAfter.TotalBatchCost.Equal(baseBefore.TotalBatchCost) ||
		!baseAfter.UpdatedAt.Equal(baseBefore.UpdatedAt) {
		t.Errorf("Recipe edit modified the consumed base")
	}
}

func TestProductResyncRecoversMirror(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	recipe := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "0.5")})
	product := testutil.SeedProduct(t, db, recipe)

	// Drift: someone edited the mirror by hand.
	if err := db.Model(product).Update("cost", dec(t, "99")).Error; err != nil {
		t.Fatalf("Failed to corrupt product: %v", err)
	}

	got, err := svc.Product.Resync(ctx, testutil.TestAccountID, recipe.ID)
	if err != nil {
		t.Fatalf("Resync returned error: %v", err)
	}
	if !got.Cost.Equal(dec(t, "2")) {
		t.Errorf("Product cost after resync = %s, want 2", got.Cost)
	}
}

func TestProductResyncUnknownRecipe(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Product.Resync(ctx, testutil.TestAccountID, "missing")
	if err == nil {
		t.Fatalf("Expected error for unknown recipe")
	}
}

func TestReportExportRecipeCosts(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	box := testutil.SeedPackaging(t, db, "Box", dec(t, "0.50"))
	recipe := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "0.5")},
		testutil.RecipeLineSpec{Packaging: box, Quantity: dec(t, "1")})

	f, filename, err := svc.Report.ExportRecipeCosts(ctx, testutil.TestAccountID, recipe.ID)
	if err != nil {
		t.Fatalf("ExportRecipeCosts returned error: %v", err)
	}
	if f == nil {
		t.Fatalf("Expected a workbook")
	}
	if filename == "" {
		t.Errorf("Expected a filename")
	}

	rows, err := f.GetRows("Costs")
	if err != nil {
		t.Fatalf("Failed to read sheet: %v", err)
	}
	// header + two lines + totals
	if len(rows) < 4 {
		t.Errorf("Expected at least 4 rows, got %d", len(rows))
	}
}
