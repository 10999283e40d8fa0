package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/internal/service"
)

const maxProductLimit = 1000

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	catalogService  service.CatalogService
	feedbackService service.FeedbackService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalogService service.CatalogService, feedbackService service.FeedbackService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService, feedbackService: feedbackService}
}

// ProductListResponse wraps a product listing.
type ProductListResponse struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

// CategoriesResponse lists the product categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ProductFeedbackResponse lists feedback for one product.
type ProductFeedbackResponse struct {
	ProductID uint             `json:"product_id"`
	Feedback  []model.Feedback `json:"feedback"`
}

// List godoc
// @Summary Search products
// @Description Case-insensitive substring search on name or description, optionally restricted to a category ("All" disables the category filter).
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search term"
// @Param category query string false "Category"
// @Param limit query int false "Maximum number of products"
// @Success 200 {object} ProductListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var filter repository.ProductFilter
	if err := echo.QueryParamsBinder(c).
		String("search", &filter.Search).
		String("category", &filter.Category).
		Int("limit", &filter.Limit).
		BindError(); err != nil {
		return badRequest("invalid query parameters", "INVALID_REQUEST")
	}
	if filter.Limit < 0 || filter.Limit > maxProductLimit {
		return badRequest("limit must be between 0 and 1000", "VALIDATION_FAILED")
	}

	products, err := h.catalogService.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return httpError(c, err)
	}
	if products == nil {
		products = []model.Product{}
	}

	return c.JSON(http.StatusOK, ProductListResponse{Products: products, Count: len(products)})
}

// Categories godoc
// @Summary List product categories
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CategoriesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /products/categories [get]
func (h *ProductHandler) Categories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}

// Get godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := productIDParam(c)
	if err != nil {
		return err
	}

	product, err := h.catalogService.GetProductByID(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// ListFeedback godoc
// @Summary List feedback for a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductFeedbackResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id}/feedback [get]
func (h *ProductHandler) ListFeedback(c echo.Context) error {
	id, err := productIDParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.catalogService.GetProductByID(ctx, id); err != nil {
		return httpError(c, err)
	}
	feedback, err := h.feedbackService.ListByProduct(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	if feedback == nil {
		feedback = []model.Feedback{}
	}
	return c.JSON(http.StatusOK, ProductFeedbackResponse{ProductID: id, Feedback: feedback})
}

func productIDParam(c echo.Context) (uint, error) {
	var id uint
	if err := echo.PathParamsBinder(c).MustUint("id", &id).BindError(); err != nil || id == 0 {
		return 0, badRequest("invalid product ID", "INVALID_ID")
	}
	return id, nil
}
