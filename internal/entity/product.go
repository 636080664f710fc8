package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog-facing mirror of a recipe. It is never authoritative
// for cost: the catalog sync copies Cost/SuggestedPrice/Margin from the source
// recipe after every successful recompute, keyed 1:1 by RecipeID.
type Product struct {
	ID             string              `json:"id" gorm:"primaryKey;size:32"`
	AccountID      string              `json:"account_id" gorm:"size:32;not null;index"`
	RecipeID       string              `json:"recipe_id" gorm:"size:32;not null;uniqueIndex"`
	Name           string              `json:"name" gorm:"size:128;not null"`
	Cost           decimal.Decimal     `json:"cost" gorm:"type:decimal(15,4)"`
	SuggestedPrice decimal.Decimal     `json:"suggested_price" gorm:"type:decimal(15,4)"`
	Margin         decimal.NullDecimal `json:"margin" gorm:"type:decimal(8,4)"`
	Origin         string              `json:"origin" gorm:"size:16;not null;default:recipe"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	DeletedAt      *time.Time          `json:"deleted_at,omitempty" gorm:"index"`

	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID"`
}

func (Product) TableName() string {
	return "products"
}

// Product origin
const (
	ProductOriginRecipe = "recipe"
)
