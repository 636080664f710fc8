package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is a ficha técnica: a sellable or semi-finished item combining
// ingredients, bases, other recipes used as ready components, and packaging.
// TotalProductionCost is a cache over the four line kinds. UnitCost mirrors the
// total (one-portion assumption). SuggestedPrice and Margin are written by the
// pricing surface; the costing engine only passes them through to the catalog.
type Recipe struct {
	ID                  string              `json:"id" gorm:"primaryKey;size:32"`
	AccountID           string              `json:"account_id" gorm:"size:32;not null;index"`
	Name                string              `json:"name" gorm:"size:128;not null"`
	Category            string              `json:"category" gorm:"size:64"`
	TotalProductionCost decimal.Decimal     `json:"total_production_cost" gorm:"type:decimal(15,4)"`
	UnitCost            decimal.Decimal     `json:"unit_cost" gorm:"type:decimal(15,4)"`
	SuggestedPrice      decimal.Decimal     `json:"suggested_price" gorm:"type:decimal(15,4)"`
	Margin              decimal.NullDecimal `json:"margin" gorm:"type:decimal(8,4)"`
	Notes               string              `json:"notes" gorm:"type:text"`
	CreatedBy           string              `json:"created_by" gorm:"size:32"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	DeletedAt           *time.Time          `json:"deleted_at,omitempty" gorm:"index"`

	IngredientLines []RecipeIngredientLine `json:"ingredient_lines,omitempty" gorm:"foreignKey:RecipeID"`
	BaseLines       []RecipeBaseLine       `json:"base_lines,omitempty" gorm:"foreignKey:RecipeID"`
	SubRecipeLines  []RecipeSubRecipeLine  `json:"sub_recipe_lines,omitempty" gorm:"foreignKey:RecipeID"`
	PackagingLines  []RecipePackagingLine  `json:"packaging_lines,omitempty" gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredientLine is a raw ingredient consumed directly by a recipe.
type RecipeIngredientLine struct {
	ID           string              `json:"id" gorm:"primaryKey;size:32"`
	RecipeID     string              `json:"recipe_id" gorm:"size:32;not null;index"`
	IngredientID string              `json:"ingredient_id" gorm:"size:32;not null;index"`
	Quantity     decimal.Decimal     `json:"quantity" gorm:"type:decimal(15,4);not null"`
	UnitCost     decimal.NullDecimal `json:"unit_cost" gorm:"type:decimal(15,4)"`
	LineCost     decimal.NullDecimal `json:"line_cost" gorm:"type:decimal(15,4)"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredientLine) TableName() string {
	return "recipe_ingredient_lines"
}

// RecipeBaseLine is a quantity of an intermediate preparation consumed by a
// recipe. UnitCost caches the base's unit cost as of the last propagation; when
// the base has no unit cost (zero batch quantity) the line cost is zero, not null.
type RecipeBaseLine struct {
	ID        string              `json:"id" gorm:"primaryKey;size:32"`
	RecipeID  string              `json:"recipe_id" gorm:"size:32;not null;index"`
	BaseID    string              `json:"base_id" gorm:"size:32;not null;index"`
	Quantity  decimal.Decimal     `json:"quantity" gorm:"type:decimal(15,4);not null"`
	UnitCost  decimal.NullDecimal `json:"unit_cost" gorm:"type:decimal(15,4)"`
	LineCost  decimal.NullDecimal `json:"line_cost" gorm:"type:decimal(15,4)"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`

	Base *Base `json:"base,omitempty" gorm:"foreignKey:BaseID"`
}

func (RecipeBaseLine) TableName() string {
	return "recipe_base_lines"
}

// RecipeSubRecipeLine is another recipe used as a ready component. The relation
// is resolvable for dependency queries but cost changes in the inner recipe do
// not cascade to the outer one.
type RecipeSubRecipeLine struct {
	ID          string              `json:"id" gorm:"primaryKey;size:32"`
	RecipeID    string              `json:"recipe_id" gorm:"size:32;not null;index"`
	SubRecipeID string              `json:"sub_recipe_id" gorm:"size:32;not null;index"`
	Quantity    decimal.Decimal     `json:"quantity" gorm:"type:decimal(15,4);not null"`
	UnitCost    decimal.NullDecimal `json:"unit_cost" gorm:"type:decimal(15,4)"`
	LineCost    decimal.NullDecimal `json:"line_cost" gorm:"type:decimal(15,4)"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	SubRecipe *Recipe `json:"sub_recipe,omitempty" gorm:"foreignKey:SubRecipeID"`
}

func (RecipeSubRecipeLine) TableName() string {
	return "recipe_subrecipe_lines"
}

// RecipePackagingLine is a packaging item consumed per recipe unit.
type RecipePackagingLine struct {
	ID          string              `json:"id" gorm:"primaryKey;size:32"`
	RecipeID    string              `json:"recipe_id" gorm:"size:32;not null;index"`
	PackagingID string              `json:"packaging_id" gorm:"size:32;not null;index"`
	Quantity    decimal.Decimal     `json:"quantity" gorm:"type:decimal(15,4);not null"`
	UnitCost    decimal.NullDecimal `json:"unit_cost" gorm:"type:decimal(15,4)"`
	LineCost    decimal.NullDecimal `json:"line_cost" gorm:"type:decimal(15,4)"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Packaging *PackagingItem `json:"packaging,omitempty" gorm:"foreignKey:PackagingID"`
}

func (RecipePackagingLine) TableName() string {
	return "recipe_packaging_lines"
}
