package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saborhq/cozinha/internal/entity"
	"github.com/saborhq/cozinha/internal/middleware"
	"github.com/saborhq/cozinha/internal/repository"
)

const (
	JWTSecret     = "cozinha-test-jwt-secret"
	TestAccountID = "acct0000000000000000000000000001"
)

// SetupTestDB opens an isolated in-memory database and migrates every table.
// Each call gets its own database, so tests never see each other's rows.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named in-memory database with shared cache so every pooled connection
	// sees the same tables; the name keeps tests isolated from each other.
	dsn := fmt.Sprintf("file:test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Ingredient{},
		&entity.Base{},
		&entity.BaseIngredientLine{},
		&entity.Recipe{},
		&entity.RecipeIngredientLine{},
		&entity.RecipeBaseLine{},
		&entity.RecipeSubRecipeLine{},
		&entity.RecipePackagingLine{},
		&entity.PackagingItem{},
		&entity.Product{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing.
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing.
func GenerateTestToken(userID, accountID, name, email string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        userID,
		"uid":        userID,
		"account_id": accountID,
		"name":       name,
		"email":      email,
		"iss":        "cozinha",
		"iat":        now.Unix(),
		"exp":        now.Add(24 * time.Hour).Unix(),
		"jti":        fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default test user bound to TestAccountID.
func DefaultTestToken() string {
	return GenerateTestToken("test-user-001", TestAccountID, "Test User", "user@test.com")
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedIngredient creates an ingredient with the given unit price and a
// correction factor of 1.
func SeedIngredient(t *testing.T, db *gorm.DB, name string, unitPrice decimal.Decimal) *entity.Ingredient {
	t.Helper()
	ing := &entity.Ingredient{
		ID:               repository.NewID(),
		AccountID:        TestAccountID,
		Name:             name,
		UnitPrice:        unitPrice,
		CorrectionFactor: decimal.NewFromInt(1),
		UnitOfMeasure:    entity.UnitKG,
	}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("Failed to seed ingredient: %v", err)
	}
	return ing
}

// SeedBase creates a base with one line per ingredient and cost caches already
// consistent with the ingredients' current prices.
func SeedBase(t *testing.T, db *gorm.DB, name string, batchQty decimal.Decimal, lines ...BaseLineSpec) *entity.Base {
	t.Helper()

	base := &entity.Base{
		ID:                 repository.NewID(),
		AccountID:          TestAccountID,
		Name:               name,
		TotalBatchQuantity: batchQty,
		UnitOfMeasure:      entity.UnitKG,
	}

	total := decimal.Zero
	for _, l := range lines {
		unitCost := l.Ingredient.EffectiveUnitCost()
		lineCost := unitCost.Mul(l.Quantity)
		base.Lines = append(base.Lines, entity.BaseIngredientLine{
			ID:           repository.NewID(),
			BaseID:       base.ID,
			IngredientID: l.Ingredient.ID,
			Quantity:     l.Quantity,
			UnitCost:     unitCost,
			LineCost:     lineCost,
		})
		total = total.Add(lineCost)
	}

	base.TotalBatchCost = total
	if batchQty.IsPositive() {
		base.UnitCost = decimal.NewNullDecimal(total.Div(batchQty).Round(4))
	}

	if err := db.Create(base).Error; err != nil {
		t.Fatalf("Failed to seed base: %v", err)
	}
	return base
}

// BaseLineSpec declares one ingredient line for SeedBase.
type BaseLineSpec struct {
	Ingredient *entity.Ingredient
	Quantity   decimal.Decimal
}

// RecipeLineSpec declares one line of any kind for SeedRecipe. Exactly one of
// the reference fields should be set.
type RecipeLineSpec struct {
	Ingredient *entity.Ingredient
	Base       *entity.Base
	SubRecipe  *entity.Recipe
	Packaging  *entity.PackagingItem
	Quantity   decimal.Decimal
}

// SeedRecipe creates a recipe whose line caches and totals are consistent with
// the referenced items' current costs.
func SeedRecipe(t *testing.T, db *gorm.DB, name string, lines ...RecipeLineSpec) *entity.Recipe {
	t.Helper()

	recipe := &entity.Recipe{
		ID:        repository.NewID(),
		AccountID: TestAccountID,
		Name:      name,
	}

	total := decimal.Zero
	for _, l := range lines {
		switch {
		case l.Ingredient != nil:
			unitCost := l.Ingredient.EffectiveUnitCost()
			lineCost := unitCost.Mul(l.Quantity)
			recipe.IngredientLines = append(recipe.IngredientLines, entity.RecipeIngredientLine{
				ID:           repository.NewID(),
				RecipeID:     recipe.ID,
				IngredientID: l.Ingredient.ID,
				Quantity:     l.Quantity,
				UnitCost:     decimal.NewNullDecimal(unitCost),
				LineCost:     decimal.NewNullDecimal(lineCost),
			})
			total = total.Add(lineCost)
		case l.Base != nil:
			line := entity.RecipeBaseLine{
				ID:       repository.NewID(),
				RecipeID: recipe.ID,
				BaseID:   l.Base.ID,
				Quantity: l.Quantity,
				UnitCost: l.Base.UnitCost,
				LineCost: decimal.NewNullDecimal(decimal.Zero),
			}
			if l.Base.UnitCost.Valid {
				line.LineCost = decimal.NewNullDecimal(l.Base.UnitCost.Decimal.Mul(l.Quantity))
			}
			recipe.BaseLines = append(recipe.BaseLines, line)
			total = total.Add(line.LineCost.Decimal)
		case l.SubRecipe != nil:
			lineCost := l.SubRecipe.UnitCost.Mul(l.Quantity)
			recipe.SubRecipeLines = append(recipe.SubRecipeLines, entity.RecipeSubRecipeLine{
				ID:          repository.NewID(),
				RecipeID:    recipe.ID,
				SubRecipeID: l.SubRecipe.ID,
				Quantity:    l.Quantity,
				UnitCost:    decimal.NewNullDecimal(l.SubRecipe.UnitCost),
				LineCost:    decimal.NewNullDecimal(lineCost),
			})
			total = total.Add(lineCost)
		case l.Packaging != nil:
			lineCost := l.Packaging.UnitPrice.Mul(l.Quantity)
			recipe.PackagingLines = append(recipe.PackagingLines, entity.RecipePackagingLine{
				ID:          repository.NewID(),
				RecipeID:    recipe.ID,
				PackagingID: l.Packaging.ID,
				Quantity:    l.Quantity,
				UnitCost:    decimal.NewNullDecimal(l.Packaging.UnitPrice),
				LineCost:    decimal.NewNullDecimal(lineCost),
			})
			total = total.Add(lineCost)
		default:
			t.Fatalf("RecipeLineSpec with no reference")
		}
	}

	recipe.TotalProductionCost = total
	recipe.UnitCost = total

	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("Failed to seed recipe: %v", err)
	}
	return recipe
}

// SeedPackaging creates a packaging item.
func SeedPackaging(t *testing.T, db *gorm.DB, name string, unitPrice decimal.Decimal) *entity.PackagingItem {
	t.Helper()
	item := &entity.PackagingItem{
		ID:            repository.NewID(),
		AccountID:     TestAccountID,
		Name:          name,
		UnitPrice:     unitPrice,
		UnitOfMeasure: entity.UnitPiece,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed packaging item: %v", err)
	}
	return item
}

// SeedProduct creates the catalog mirror row for a recipe.
func SeedProduct(t *testing.T, db *gorm.DB, recipe *entity.Recipe) *entity.Product {
	t.Helper()
	product := &entity.Product{
		ID:             repository.NewID(),
		AccountID:      recipe.AccountID,
		RecipeID:       recipe.ID,
		Name:           recipe.Name,
		Cost:           recipe.UnitCost,
		SuggestedPrice: recipe.SuggestedPrice,
		Margin:         recipe.Margin,
		Origin:         entity.ProductOriginRecipe,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}
