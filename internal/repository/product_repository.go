package repository

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"salescrm/internal/model"
)

// CategoryAll is the category filter value that disables category filtering.
const CategoryAll = "All"

// ProductFilter narrows a product listing. Zero values do not filter.
type ProductFilter struct {
	Search   string
	Category string
	Limit    int
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// List returns products matching filter in insertion order. Search is a
// case-insensitive substring match on name or description.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if filter.Category != "" && filter.Category != CategoryAll {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []model.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Categories returns the distinct non-empty categories, sorted.
func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	var raw []string
	if err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().
		Pluck("category", &raw).Error; err != nil {
		return nil, err
	}
	sort.Strings(raw)
	return raw, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally. Backslash is the default
// LIKE escape character on both MySQL and PostgreSQL.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
