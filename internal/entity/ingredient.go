package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is a raw purchased input. The effective unit cost is always
// derived from UnitPrice and CorrectionFactor; downstream tables only cache it.
type Ingredient struct {
	ID               string          `json:"id" gorm:"primaryKey;size:32"`
	AccountID        string          `json:"account_id" gorm:"size:32;not null;index"`
	Name             string          `json:"name" gorm:"size:128;not null"`
	UnitPrice        decimal.Decimal `json:"unit_price" gorm:"type:decimal(15,4);not null"`
	CorrectionFactor decimal.Decimal `json:"correction_factor" gorm:"type:decimal(8,4);not null;default:1"`
	UnitOfMeasure    string          `json:"unit_of_measure" gorm:"size:16;not null;default:kg"`
	Supplier         string          `json:"supplier" gorm:"size:128"`
	Notes            string          `json:"notes" gorm:"type:text"`
	CreatedBy        string          `json:"created_by" gorm:"size:32"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        *time.Time      `json:"deleted_at,omitempty" gorm:"index"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// EffectiveUnitCost is the price per unit after waste/yield correction.
func (i *Ingredient) EffectiveUnitCost() decimal.Decimal {
	return i.UnitPrice.Mul(i.CorrectionFactor)
}

// UnitOfMeasure values
const (
	UnitKG    = "kg"
	UnitG     = "g"
	UnitL     = "l"
	UnitML    = "ml"
	UnitPiece = "un"
)
