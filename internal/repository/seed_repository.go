package repository

import (
	"context"

	"gorm.io/gorm"

	"salescrm/internal/model"
)

// SeedRepository writes the bootstrap sample data.
type SeedRepository interface {
	CountProducts(ctx context.Context) (int64, error)
	CreateProducts(ctx context.Context, products []model.Product) error
	CreateSales(ctx context.Context, sales []model.Sale) error
	CreateInventoryLogs(ctx context.Context, logs []model.InventoryLog) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo SeedRepository) error) error
}

type seedRepository struct {
	db *gorm.DB
}

// NewSeedRepository creates a new seed repository.
func NewSeedRepository(db *gorm.DB) SeedRepository {
	return &seedRepository{db: db}
}

func (r *seedRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateProducts inserts products and fills in their generated IDs.
func (r *seedRepository) CreateProducts(ctx context.Context, products []model.Product) error {
	return r.db.WithContext(ctx).Create(&products).Error
}

func (r *seedRepository) CreateSales(ctx context.Context, sales []model.Sale) error {
	return r.db.WithContext(ctx).Create(&sales).Error
}

func (r *seedRepository) CreateInventoryLogs(ctx context.Context, logs []model.InventoryLog) error {
	return r.db.WithContext(ctx).Create(&logs).Error
}

// WithTransaction executes a function within a database transaction.
func (r *seedRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo SeedRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &seedRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
