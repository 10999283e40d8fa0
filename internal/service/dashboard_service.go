package service

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "salescrm/internal/errors"
	"salescrm/internal/model"
	"salescrm/internal/repository"
)

const recentProductsLimit = 5

// Dashboard is the landing view after login.
type Dashboard struct {
	Username       string          `json:"username"`
	Role           model.Role      `json:"role"`
	RoleLabel      string          `json:"role_label"`
	ProductCount   int64           `json:"product_count"`
	FeedbackCount  int64           `json:"feedback_count"`
	RecentProducts []model.Product `json:"recent_products"`
}

// DashboardService assembles the dashboard.
type DashboardService interface {
	Build(ctx context.Context, username string, role model.Role) (*Dashboard, error)
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	feedbackRepo repository.FeedbackRepository
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(productRepo repository.ProductRepository, feedbackRepo repository.FeedbackRepository) DashboardService {
	return &dashboardService{
		productRepo:  productRepo,
		feedbackRepo: feedbackRepo,
	}
}

func (s *dashboardService) Build(ctx context.Context, username string, role model.Role) (*Dashboard, error) {
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("count products", err)
	}
	feedback, err := s.feedbackRepo.Count(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("count feedback", err)
	}
	recent, err := s.productRepo.List(ctx, repository.ProductFilter{Limit: recentProductsLimit})
	if err != nil {
		return nil, apperrors.NewStorageError("list recent products", err)
	}

	return &Dashboard{
		Username:       username,
		Role:           role,
		RoleLabel:      RoleLabel(role),
		ProductCount:   products,
		FeedbackCount:  feedback,
		RecentProducts: recent,
	}, nil
}

// RoleLabel renders a role for display, "Guest" when empty.
func RoleLabel(role model.Role) string {
	if role == "" {
		return "Guest"
	}
	// a Caser keeps state between calls and must not be shared
	return cases.Title(language.English).String(string(role))
}
