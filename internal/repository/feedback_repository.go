package repository

import (
	"context"

	"gorm.io/gorm"

	"salescrm/internal/model"
)

// FeedbackRepository defines feedback persistence operations.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	ListByProduct(ctx context.Context, productID uint) ([]model.Feedback, error)
	Count(ctx context.Context) (int64, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

// ListByProduct returns the product's feedback, newest first.
func (r *feedbackRepository) ListByProduct(ctx context.Context, productID uint) ([]model.Feedback, error) {
	var feedback []model.Feedback
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Feedback{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
