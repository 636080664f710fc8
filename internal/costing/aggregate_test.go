package costing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/saborhq/cozinha/internal/entity"
	"github.com/saborhq/cozinha/internal/repository"
	"github.com/saborhq/cozinha/internal/testutil"
)

func TestRecomputeBaseTotalsUnchangedWritesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	dough := testutil.SeedBase(t, db, "Dough", dec(t, "2"),
		testutil.BaseLineSpec{Ingredient: flour, Quantity: dec(t, "2")})

	agg := NewRecalculator(db)
	totals, err := agg.RecomputeBaseTotals(ctx, dough.ID)
	if err != nil {
		t.Fatalf("RecomputeBaseTotals returned error: %v", err)
	}
	if totals.Changed {
		t.Errorf("Changed = true for a base already at its fixed point")
	}
	requireDecimal(t, totals.TotalBatchCost, "8", "total batch cost")
	requireDecimal(t, totals.UnitCost.Decimal, "4", "unit cost")
}

func TestRecomputeBaseTotalsZeroQuantity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	base := testutil.SeedBase(t, db, "Starter", decimal.Zero,
		testutil.BaseLineSpec{Ingredient: flour, Quantity: dec(t, "1")})

	agg := NewRecalculator(db)
	totals, err := agg.RecomputeBaseTotals(ctx, base.ID)
	if err != nil {
		t.Fatalf("RecomputeBaseTotals returned error: %v", err)
	}
	requireDecimal(t, totals.TotalBatchCost, "4", "total batch cost")
	if totals.UnitCost.Valid {
		t.Errorf("Expected null unit cost for zero batch quantity, got %s", totals.UnitCost.Decimal)
	}
}

func TestRecomputeBaseTotalsRounds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "10"))
	base := testutil.SeedBase(t, db, "Batch", dec(t, "3"),
		testutil.BaseLineSpec{Ingredient: flour, Quantity: dec(t, "1")})

	agg := NewRecalculator(db)
	totals, err := agg.RecomputeBaseTotals(ctx, base.ID)
	if err != nil {
		t.Fatalf("RecomputeBaseTotals returned error: %v", err)
	}
	// 10 / 3 rounded to 4 decimal places
	requireDecimal(t, totals.UnitCost.Decimal, "3.3333", "unit cost")
}

func TestRecomputeRecipeTotalsNullLinesCountZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	recipe := testutil.SeedRecipe(t, db, "Bread",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "0.5")})

	// An unpriced line, as a save before any propagation would leave it.
	unpriced := &entity.RecipeIngredientLine{
		ID:           repository.NewID(),
		RecipeID:     recipe.ID,
		IngredientID: flour.ID,
		Quantity:     dec(t, "1"),
	}
	if err := db.Create(unpriced).Error; err != nil {
		t.Fatalf("Failed to create unpriced line: %v", err)
	}

	agg := NewRecalculator(db)
	totals, err := agg.RecomputeRecipeTotals(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("RecomputeRecipeTotals returned error: %v", err)
	}
	requireDecimal(t, totals.TotalProductionCost, "2", "total production cost")
	requireDecimal(t, totals.UnitCost, "2", "unit cost")
}

func TestRecomputeRecipeTotalsSumsAllLineKinds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	flour := testutil.SeedIngredient(t, db, "Flour", dec(t, "4"))
	dough := testutil.SeedBase(t, db, "Dough", dec(t, "2"),
		testutil.BaseLineSpec{Ingredient: flour, Quantity: dec(t, "2")})
	box := testutil.SeedPackaging(t, db, "Box", dec(t, "0.50"))
	inner := testutil.SeedRecipe(t, db, "Filling",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "1")})
	outer := testutil.SeedRecipe(t, db, "Pie",
		testutil.RecipeLineSpec{Ingredient: flour, Quantity: dec(t, "0.25")},
		testutil.RecipeLineSpec{Base: dough, Quantity: dec(t, "0.5")},
		testutil.RecipeLineSpec{SubRecipe: inner, Quantity: dec(t, "1")},
		testutil.RecipeLineSpec{Packaging: box, Quantity: dec(t, "2")})

	agg := NewRecalculator(db)
	totals, err := agg.RecomputeRecipeTotals(ctx, outer.ID)
	if err != nil {
		t.Fatalf("RecomputeRecipeTotals returned error: %v", err)
	}
	// 1 + 2 + 4 + 1 over the four kinds
	requireDecimal(t, totals.TotalProductionCost, "8", "total production cost")
}
