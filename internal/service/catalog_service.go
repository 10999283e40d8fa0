package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"salescrm/internal/cache"
	apperrors "salescrm/internal/errors"
	"salescrm/internal/model"
	"salescrm/internal/repository"
)

const (
	catalogCacheTTL       = 5 * time.Minute
	catalogCachePattern   = "catalog:*"
	categoriesCacheKey    = "catalog:categories"
	productCacheKeyFormat = "catalog:product:%d"
)

// CatalogService provides read access to products.
type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	// GetProductByID returns ErrProductNotFound when id does not exist.
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	// InvalidateCache drops cached catalog reads after the store was changed out of band.
	InvalidateCache(ctx context.Context) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	cache       *cache.Client
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(productRepo repository.ProductRepository, cache *cache.Client) CatalogService {
	return &catalogService{productRepo: productRepo, cache: cache}
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorageError("list products", err)
	}
	return products, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if found, _ := s.cache.GetJSON(ctx, categoriesCacheKey, &categories); found {
		return categories, nil
	}

	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list categories", err)
	}
	_ = s.cache.SetJSON(ctx, categoriesCacheKey, categories, catalogCacheTTL)
	return categories, nil
}

func (s *catalogService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	key := fmt.Sprintf(productCacheKeyFormat, id)

	var cached model.Product
	if found, _ := s.cache.GetJSON(ctx, key, &cached); found {
		return &cached, nil
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, apperrors.NewStorageError("find product", err)
	}
	_ = s.cache.SetJSON(ctx, key, product, catalogCacheTTL)
	return product, nil
}

func (s *catalogService) InvalidateCache(ctx context.Context) error {
	return s.cache.DeletePattern(ctx, catalogCachePattern)
}
