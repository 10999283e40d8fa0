package model

import "time"

// InventoryLog is an append-only ledger entry of a stock change.
// Entries are advisory: Product.StockQuantity is never recomputed from them.
type InventoryLog struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ProductID      uint      `json:"product_id" gorm:"not null;index"`
	QuantityChange int       `json:"quantity_change" gorm:"not null"`
	Reason         string    `json:"reason" gorm:"size:255"`
	LogDate        time.Time `json:"log_date" gorm:"autoCreateTime"`

	// Relations
	Product *Product `json:"-" gorm:"foreignKey:ProductID"`
}

// TableName returns the database table name for the InventoryLog model.
func (InventoryLog) TableName() string {
	return "inventory_log"
}
