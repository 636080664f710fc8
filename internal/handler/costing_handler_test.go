package handler

import (
	"net/http"
	"testing"

	"github.com/saborhq/cozinha/internal/testutil"
)

func TestRecomputeAllEndpoint(t *testing.T) {
	r, _ := setupIngredientRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/v1/ingredients", map[string]interface{}{
		"name":       "Flour",
		"unit_price": "4",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "POST", "/api/v1/costing/recompute", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Recompute status = %d, body = %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	// An account with no bases or recipes sweeps cleanly to zero counts.
	if data["bases_updated"] != float64(0) {
		t.Errorf("bases_updated = %v, want 0", data["bases_updated"])
	}
}
