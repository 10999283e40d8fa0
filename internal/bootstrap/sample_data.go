package bootstrap

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"salescrm/internal/model"
)

type sampleProduct struct {
	name, description, category, price string
	stock                              int
}

var sampleProducts = []sampleProduct{
	{"Laptop Pro", "High-performance laptop for professionals", "Electronics", "1299.99", 50},
	{"Office Chair", "Ergonomic office chair", "Furniture", "249.99", 100},
	{"CRM Software Premium", "Enterprise CRM solution", "Software", "499.99", 999},
	{"Business Phone", "Professional business phone system", "Electronics", "299.99", 75},
	{"Marketing Services", "Digital marketing service package", "Services", "999.99", 999},
	{"Desk Organizer", "Premium desk organizer set", "Office Supplies", "49.99", 200},
	{"Conference Table", "Large conference room table", "Furniture", "899.99", 20},
	{"Wireless Headset", "Professional wireless headset", "Electronics", "129.99", 150},
	{"Project Management Tool", "Cloud-based project management software", "Software", "299.99", 999},
	{"Customer Support Package", "Premium customer support service", "Services", "799.99", 999},
}

// product is a 1-based position in sampleProducts.
type sampleSale struct {
	product  int
	quantity int
	total    string
	name     string
	email    string
	at       string
}

var sampleSales = []sampleSale{
	{1, 2, "2599.98", "John Smith", "john@example.com", "2025-03-15 09:30:00"},
	{3, 1, "499.99", "Sarah Johnson", "sarah@example.com", "2025-03-16 14:20:00"},
	{2, 4, "999.96", "Michael Brown", "michael@example.com", "2025-03-18 11:45:00"},
	{5, 1, "999.99", "Emma Wilson", "emma@example.com", "2025-03-20 16:30:00"},
	{8, 2, "259.98", "David Lee", "david@example.com", "2025-03-22 10:15:00"},
	{4, 1, "299.99", "Lisa Wang", "lisa@example.com", "2025-03-25 13:40:00"},
	{7, 1, "899.99", "Robert Garcia", "robert@example.com", "2025-03-28 15:55:00"},
}

type sampleLog struct {
	product int
	change  int
	reason  string
	at      string
}

var sampleLogs = []sampleLog{
	{1, -2, "Sale to John Smith", "2025-03-15 09:30:00"},
	{3, -1, "Sale to Sarah Johnson", "2025-03-16 14:20:00"},
	{6, 50, "Restocked inventory", "2025-03-17 08:00:00"},
	{2, -4, "Sale to Michael Brown", "2025-03-18 11:45:00"},
	{5, -1, "Sale to Emma Wilson", "2025-03-20 16:30:00"},
	{8, -2, "Sale to David Lee", "2025-03-22 10:15:00"},
	{4, -1, "Sale to Lisa Wang", "2025-03-25 13:40:00"},
	{7, -1, "Sale to Robert Garcia", "2025-03-28 15:55:00"},
	{9, 100, "Restocked inventory", "2025-04-01 09:00:00"},
	{2, 25, "Restocked inventory", "2025-04-02 10:30:00"},
}

const sampleTimeLayout = "2006-01-02 15:04:05"

// SampleProducts returns the fixed sample catalog.
func SampleProducts() []model.Product {
	products := make([]model.Product, 0, len(sampleProducts))
	for _, p := range sampleProducts {
		products = append(products, model.Product{
			Name:          p.name,
			Description:   p.description,
			Category:      p.category,
			Price:         decimal.RequireFromString(p.price),
			StockQuantity: p.stock,
		})
	}
	return products
}

// SampleSales returns the sample sales, linked to products already inserted in
// SampleProducts order.
func SampleSales(products []model.Product) ([]model.Sale, error) {
	sales := make([]model.Sale, 0, len(sampleSales))
	for _, s := range sampleSales {
		productID, err := sampleProductID(products, s.product)
		if err != nil {
			return nil, err
		}
		at, err := time.ParseInLocation(sampleTimeLayout, s.at, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse sale date: %w", err)
		}
		sales = append(sales, model.Sale{
			ProductID:     productID,
			Quantity:      s.quantity,
			TotalPrice:    decimal.RequireFromString(s.total),
			CustomerName:  s.name,
			CustomerEmail: s.email,
			SaleDate:      at,
		})
	}
	return sales, nil
}

// SampleInventoryLogs returns the sample ledger entries, linked like SampleSales.
func SampleInventoryLogs(products []model.Product) ([]model.InventoryLog, error) {
	logs := make([]model.InventoryLog, 0, len(sampleLogs))
	for _, l := range sampleLogs {
		productID, err := sampleProductID(products, l.product)
		if err != nil {
			return nil, err
		}
		at, err := time.ParseInLocation(sampleTimeLayout, l.at, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse log date: %w", err)
		}
		logs = append(logs, model.InventoryLog{
			ProductID:      productID,
			QuantityChange: l.change,
			Reason:         l.reason,
			LogDate:        at,
		})
	}
	return logs, nil
}

func sampleProductID(products []model.Product, position int) (uint, error) {
	if position < 1 || position > len(products) || products[position-1].ID == 0 {
		return 0, fmt.Errorf("sample product %d has not been inserted", position)
	}
	return products[position-1].ID, nil
}
