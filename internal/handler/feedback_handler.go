package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"salescrm/internal/errors"
	"salescrm/internal/model"
	"salescrm/internal/service"
)

// FeedbackHandler handles feedback submission.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
	catalogService  service.CatalogService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService service.FeedbackService, catalogService service.CatalogService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, catalogService: catalogService}
}

// FeedbackRequest represents a feedback submission.
type FeedbackRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,max=255"`
	CustomerEmail string `json:"customer_email" validate:"required,email,max=255"`
	ProductID     *uint  `json:"product_id" validate:"required,min=1"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comments      string `json:"comments" validate:"max=5000"`
}

// FeedbackResponse represents a stored feedback row.
type FeedbackResponse struct {
	Message  string          `json:"message"`
	Feedback *model.Feedback `json:"feedback"`
}

// Submit godoc
// @Summary Submit customer feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FeedbackRequest true "Feedback"
// @Success 201 {object} FeedbackResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c echo.Context) error {
	var req FeedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.catalogService.GetProductByID(ctx, *req.ProductID); err != nil {
		if stderrors.Is(err, errors.ErrProductNotFound) {
			return unknownProduct()
		}
		return httpError(c, err)
	}

	feedback, err := h.feedbackService.Submit(ctx, service.FeedbackInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		ProductID:     req.ProductID,
		Rating:        req.Rating,
		Comments:      req.Comments,
	})
	if stderrors.Is(err, errors.ErrProductNotFound) {
		// Removed after the check above.
		return unknownProduct()
	}
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusCreated, FeedbackResponse{
		Message:  "thank you for your feedback",
		Feedback: feedback,
	})
}

func unknownProduct() *echo.HTTPError {
	return badRequest("product does not exist", "UNKNOWN_PRODUCT")
}
