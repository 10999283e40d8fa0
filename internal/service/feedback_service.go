package service

import (
	"context"
	"log/slog"

	"salescrm/internal/db"
	apperrors "salescrm/internal/errors"
	"salescrm/internal/model"
	"salescrm/internal/repository"
)

// FeedbackInput is a customer's rating as accepted by the shell. Presence of every
// field but Comments, email format, rating range and product existence are
// checked before Submit.
type FeedbackInput struct {
	CustomerName  string
	CustomerEmail string
	ProductID     *uint
	Rating        int
	Comments      string
}

// FeedbackService records and lists customer feedback.
type FeedbackService interface {
	Submit(ctx context.Context, input FeedbackInput) (*model.Feedback, error)
	ListByProduct(ctx context.Context, productID uint) ([]model.Feedback, error)
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	logger       *slog.Logger
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, logger *slog.Logger) FeedbackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &feedbackService{feedbackRepo: feedbackRepo, logger: logger}
}

// Submit inserts one feedback row. Every call creates a new row. A product that
// the store no longer holds is reported as ErrProductNotFound.
func (s *feedbackService) Submit(ctx context.Context, input FeedbackInput) (*model.Feedback, error) {
	feedback := &model.Feedback{
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		ProductID:     input.ProductID,
		Rating:        input.Rating,
		Comments:      input.Comments,
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.NewStorageError("create feedback", err)
	}

	s.logger.Info("feedback submitted", slog.Uint64("feedback_id", uint64(feedback.ID)), slog.Int("rating", feedback.Rating))
	return feedback, nil
}

func (s *feedbackService) ListByProduct(ctx context.Context, productID uint) ([]model.Feedback, error) {
	feedback, err := s.feedbackRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, apperrors.NewStorageError("list feedback", err)
	}
	return feedback, nil
}
