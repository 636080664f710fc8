package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackagingItem is a purchased packaging unit (box, bag, label) consumed by
// recipes. Unlike ingredients there is no correction factor; the unit price is
// the effective cost.
type PackagingItem struct {
	ID            string          `json:"id" gorm:"primaryKey;size:32"`
	AccountID     string          `json:"account_id" gorm:"size:32;not null;index"`
	Name          string          `json:"name" gorm:"size:128;not null"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(15,4);not null"`
	UnitOfMeasure string          `json:"unit_of_measure" gorm:"size:16;not null;default:un"`
	CreatedBy     string          `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty" gorm:"index"`
}

func (PackagingItem) TableName() string {
	return "packaging_items"
}
