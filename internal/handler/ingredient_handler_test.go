package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/saborhq/cozinha/internal/repository"
	"github.com/saborhq/cozinha/internal/service"
	"github.com/saborhq/cozinha/internal/testutil"
)

func setupIngredientRouter(t *testing.T) (*gin.Engine, *service.Services) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := service.NewServices(db, repos, nil, zap.NewNop())
	h := NewHandlers(svc)

	r := testutil.SetupRouter()
	api := testutil.AuthGroup(r, "/api/v1")
	h.RegisterRoutes(api)
	return r, svc
}

func TestIngredientCreateAndGet(t *testing.T) {
	r, _ := setupIngredientRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/v1/ingredients", map[string]interface{}{
		"name":       "Flour",
		"unit_price": "3.80",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, body = %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	id := data["id"].(string)
	if len(id) != 32 {
		t.Errorf("Ingredient id length = %d, want 32", len(id))
	}
	if data["correction_factor"] != "1" {
		t.Errorf("Default correction factor = %v, want 1", data["correction_factor"])
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/ingredients/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Get status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestIngredientUpdateReturnsPropagationSummary(t *testing.T) {
	r, svc := setupIngredientRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/v1/ingredients", map[string]interface{}{
		"name":       "Flour",
		"unit_price": "3.80",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, body = %s", w.Code, w.Body.String())
	}
	flourID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// One base consuming the ingredient, created through the service so its
	// caches start consistent.
	if _, _, err := svc.Base.Create(context.Background(), testutil.TestAccountID, "test-user-001", &service.SaveBaseInput{
		Name:               "Dough",
		TotalBatchQuantity: decimal.NewFromInt(2),
		Lines: []service.BaseLineInput{
			{IngredientID: flourID, Quantity: decimal.NewFromInt(2)},
		},
	}); err != nil {
		t.Fatalf("Failed to create base: %v", err)
	}

	w = testutil.DoRequest(r, "PUT", "/api/v1/ingredients/"+flourID, map[string]interface{}{
		"unit_price": "4.00",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Update status = %d, body = %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	propagation, ok := data["propagation"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected a propagation summary, got %v", data["propagation"])
	}
	if propagation["bases_updated"] != float64(1) {
		t.Errorf("bases_updated = %v, want 1", propagation["bases_updated"])
	}
}

func TestIngredientGetNotFound(t *testing.T) {
	r, _ := setupIngredientRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "GET", "/api/v1/ingredients/missing", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["code"] != float64(40400) {
		t.Errorf("Error code = %v, want 40400", resp["code"])
	}
}

func TestIngredientRequiresAuth(t *testing.T) {
	r, _ := setupIngredientRouter(t)

	w := testutil.DoRequest(r, "GET", "/api/v1/ingredients", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Status without token = %d, want 401", w.Code)
	}
}
