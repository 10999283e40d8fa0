package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. StockQuantity is maintained independently of InventoryLog.
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"size:255;not null"`
	Description   string          `json:"description" gorm:"type:text"`
	Category      string          `json:"category" gorm:"size:100;index"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName returns the database table name for the Product model.
func (Product) TableName() string {
	return "products"
}
