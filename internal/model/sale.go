package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records a completed purchase. Only seeding and the query console write sales.
type Sale struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	ProductID     uint            `json:"product_id" gorm:"not null;index"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);not null"`
	CustomerName  string          `json:"customer_name" gorm:"size:255"`
	CustomerEmail string          `json:"customer_email" gorm:"size:255"`
	SaleDate      time.Time       `json:"sale_date" gorm:"autoCreateTime"`

	// Relations
	Product *Product `json:"-" gorm:"foreignKey:ProductID"`
}

// TableName returns the database table name for the Sale model.
func (Sale) TableName() string {
	return "sales"
}
