package handler

import (
	"net/http"
	"testing"

	"github.com/saborhq/cozinha/internal/testutil"
)

func TestRecipeGetProduct(t *testing.T) {
	r, _ := setupIngredientRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/v1/ingredients", map[string]interface{}{
		"name":       "Flour",
		"unit_price": "4",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create ingredient status = %d, body = %s", w.Code, w.Body.String())
	}
	flourID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(r, "POST", "/api/v1/recipes", map[string]interface{}{
		"name":            "Bread",
		"suggested_price": "10",
		"ingredient_lines": []map[string]interface{}{
			{"reference_id": flourID, "quantity": "0.5"},
		},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create recipe status = %d, body = %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	recipeID := data["recipe"].(map[string]interface{})["id"].(string)

	// Creating the recipe mirrors it into the catalog.
	w = testutil.DoRequest(r, "GET", "/api/v1/recipes/"+recipeID+"/product", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("GetProduct status = %d, body = %s", w.Code, w.Body.String())
	}
	product := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if product["recipe_id"] != recipeID {
		t.Errorf("Product recipe_id = %v, want %s", product["recipe_id"], recipeID)
	}
	if product["cost"] != "2" {
		t.Errorf("Product cost = %v, want 2", product["cost"])
	}
}

func TestRecipeGetProductNotFound(t *testing.T) {
	r, _ := setupIngredientRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "GET", "/api/v1/recipes/missing/product", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", w.Code)
	}
}
