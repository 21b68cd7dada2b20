package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for catalog handlers.
type ProductHandler struct {
	uc     usecase.ProductUsecase
	logger *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: logger,
	}
}

// parseSort maps the query value onto a supported ordering, defaulting to
// newest first.
func parseSort(raw string) repository.ProductSort {
	switch repository.ProductSort(raw) {
	case repository.ProductSortPriceAsc:
		return repository.ProductSortPriceAsc
	case repository.ProductSortPriceDesc:
		return repository.ProductSortPriceDesc
	case repository.ProductSortRating:
		return repository.ProductSortRating
	default:
		return repository.ProductSortNew
	}
}

// parsePageQuery reads page/pageSize query params with clamped fallbacks.
func parsePageQuery(c echo.Context) util.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	return util.ParsePage(page, pageSize)
}

// List serves the public catalog browse endpoint.
func (h *ProductHandler) List(c echo.Context) error {
	input := &usecase.ProductListInput{
		Search:       c.QueryParam("q"),
		CategorySlug: c.QueryParam("category"),
		MinPrice:     c.QueryParam("minPrice"),
		MaxPrice:     c.QueryParam("maxPrice"),
		Sort:         parseSort(c.QueryParam("sort")),
		Page:         parsePageQuery(c),
	}

	products, total, err := h.uc.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Paged{
		Items: products,
		Page: &response.PageInfo{
			Page:     input.Page.Page,
			PageSize: input.Page.PageSize,
			Total:    total,
		},
	})
}

// GetBySlug serves the public product detail page.
func (h *ProductHandler) GetBySlug(c echo.Context) error {
	product, err := h.uc.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}

// Create handles the admin product creation request.
func (h *ProductHandler) Create(c echo.Context) error {
	var input usecase.CreateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.Create(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product)
}

// Update handles the admin partial product update request.
func (h *ProductHandler) Update(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid product id")
	}

	var input usecase.UpdateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.Update(c.Request().Context(), productID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}

// Delete handles the admin product deletion request.
func (h *ProductHandler) Delete(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid product id")
	}

	if err := h.uc.Delete(c.Request().Context(), productID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// AddImage handles the admin gallery append request.
func (h *ProductHandler) AddImage(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid product id")
	}

	var input usecase.AddImageInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid image input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.AddImage(c.Request().Context(), productID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product)
}

// RemoveImage handles the admin gallery removal request.
func (h *ProductHandler) RemoveImage(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid product id")
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid image id")
	}

	product, err := h.uc.RemoveImage(c.Request().Context(), productID, imageID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}
