package model

import "time"

// Feedback is a customer rating of a product. Rows are immutable once written.
type Feedback struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CustomerName  string    `json:"customer_name" gorm:"size:255;not null"`
	CustomerEmail string    `json:"customer_email" gorm:"size:255;not null"`
	ProductID     *uint     `json:"product_id" gorm:"index"`
	Rating        int       `json:"rating" gorm:"not null"`
	Comments      string    `json:"comments" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Product *Product `json:"-" gorm:"foreignKey:ProductID"`
}

// TableName returns the database table name for the Feedback model.
func (Feedback) TableName() string {
	return "feedback"
}
