package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Base is an intermediate preparation (a batch of dough, a sauce) made from
// ingredients and consumed by recipes. TotalBatchCost and UnitCost are caches
// maintained by the costing engine; the ingredient lines are the source of truth.
type Base struct {
	ID                 string              `json:"id" gorm:"primaryKey;size:32"`
	AccountID          string              `json:"account_id" gorm:"size:32;not null;index"`
	Name               string              `json:"name" gorm:"size:128;not null"`
	TotalBatchQuantity decimal.Decimal     `json:"total_batch_quantity" gorm:"type:decimal(15,4);not null"`
	UnitOfMeasure      string              `json:"unit_of_measure" gorm:"size:16;not null;default:kg"`
	TotalBatchCost     decimal.Decimal     `json:"total_batch_cost" gorm:"type:decimal(15,4)"`
	UnitCost           decimal.NullDecimal `json:"unit_cost" gorm:"type:decimal(15,4)"`
	Notes              string              `json:"notes" gorm:"type:text"`
	CreatedBy          string              `json:"created_by" gorm:"size:32"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	DeletedAt          *time.Time          `json:"deleted_at,omitempty" gorm:"index"`

	Lines []BaseIngredientLine `json:"lines,omitempty" gorm:"foreignKey:BaseID"`
}

func (Base) TableName() string {
	return "bases"
}

// BaseIngredientLine is one ingredient consumed by a base batch.
// UnitCost and LineCost cache the ingredient's effective unit cost as of the
// last propagation.
type BaseIngredientLine struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	BaseID       string          `json:"base_id" gorm:"size:32;not null;index"`
	IngredientID string          `json:"ingredient_id" gorm:"size:32;not null;index"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(15,4);not null"`
	UnitCost     decimal.Decimal `json:"unit_cost" gorm:"type:decimal(15,4)"`
	LineCost     decimal.Decimal `json:"line_cost" gorm:"type:decimal(15,4)"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
}

func (BaseIngredientLine) TableName() string {
	return "base_ingredient_lines"
}
