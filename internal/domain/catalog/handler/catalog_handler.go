package handler

import (
	"errors"
	"net/http"

	"digistore/internal/domain/catalog/model"
	"digistore/internal/domain/catalog/repository"
	"digistore/internal/domain/catalog/service"
	"digistore/pkg/response"
	"digistore/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

type ProductQuery struct {
	utils.Pagination
	Category string `form:"category"`
	Featured *bool  `form:"featured"`
}

// ListProducts returns the public catalog.
// @Summary List products
// @Tags Catalog
// @Produce json
// @Param category query string false "Category slug"
// @Param featured query bool false "Featured only"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filter := repository.ProductFilter{
		CategorySlug: q.Category,
		Featured:     q.Featured,
		ActiveOnly:   true,
	}

	result, err := h.service.ListProducts(c.Request.Context(), filter, q.Pagination)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, result)
}

// GetProduct returns one product by slug.
// @Summary Product detail
// @Tags Catalog
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} response.Response{data=model.Product}
// @Router /api/products/{slug} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	p, err := h.service.GetProductBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, p)
}

// ListCategories returns active categories.
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Category}
// @Router /api/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context(), true)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, categories)
}

type ProductInput struct {
	Name            string             `json:"name" binding:"required"`
	Description     string             `json:"description"`
	LongDescription string             `json:"longDescription"`
	Image           string             `json:"image"`
	CategoryID      string             `json:"categoryId" binding:"required,uuid"`
	Pricing         model.PricingTiers `json:"pricing" binding:"required,min=1"`
	StockOut        bool               `json:"stockOut"`
	Featured        bool               `json:"featured"`
	SortOrder       int                `json:"sortOrder"`
	Status          int                `json:"status"`
}

func (in *ProductInput) toService() service.ProductInput {
	return service.ProductInput{
		Name:            in.Name,
		Description:     in.Description,
		LongDescription: in.LongDescription,
		Image:           in.Image,
		CategoryID:      in.CategoryID,
		Pricing:         in.Pricing,
		StockOut:        in.StockOut,
		Featured:        in.Featured,
		SortOrder:       in.SortOrder,
		Status:          in.Status,
	}
}

// CreateProduct creates a product (admin).
// @Summary Create product
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body ProductInput true "Product"
// @Success 200 {object} response.Response{data=model.Product}
// @Router /api/admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, err := h.service.CreateProduct(c.Request.Context(), input.toService())
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}

	response.Success(c, p)
}

// UpdateProduct updates a product (admin).
// @Summary Update product
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body ProductInput true "Product"
// @Success 200 {object} response.Response{data=model.Product}
// @Router /api/admin/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), input.toService())
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}

	response.Success(c, p)
}

// DeleteProduct deletes a product and its hot deals (admin).
// @Summary Delete product
// @Tags Admin
// @Param id path string true "Product ID"
// @Success 200 {object} response.Response
// @Router /api/admin/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.writeCatalogError(c, err)
		return
	}

	response.Success(c, nil)
}

type CategoryInput struct {
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sortOrder"`
	Status    int    `json:"status"`
}

// CreateCategory creates a category (admin).
// @Summary Create category
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body CategoryInput true "Category"
// @Success 200 {object} response.Response{data=model.Category}
// @Router /api/admin/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cat, err := h.service.CreateCategory(c.Request.Context(), service.CategoryInput{
		Name:      input.Name,
		Icon:      input.Icon,
		SortOrder: input.SortOrder,
		Status:    input.Status,
	})
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}

	response.Success(c, cat)
}

// UpdateCategory updates a category (admin).
// @Summary Update category
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param input body CategoryInput true "Category"
// @Success 200 {object} response.Response{data=model.Category}
// @Router /api/admin/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cat, err := h.service.UpdateCategory(c.Request.Context(), c.Param("id"), service.CategoryInput{
		Name:      input.Name,
		Icon:      input.Icon,
		SortOrder: input.SortOrder,
		Status:    input.Status,
	})
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}

	response.Success(c, cat)
}

// DeleteCategory deletes a category with its products and their hot deals
// (admin). Destructive.
// @Summary Delete category (cascades)
// @Tags Admin
// @Param id path string true "Category ID"
// @Success 200 {object} response.Response
// @Router /api/admin/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.service.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.writeCatalogError(c, err)
		return
	}

	response.Success(c, nil)
}

func (h *CatalogHandler) writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Product not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrSlugTaken):
		response.Error(c, http.StatusBadRequest, response.ErrSlugTaken, "Slug already in use")
	case errors.Is(err, service.ErrNoPricing):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Product needs at least one pricing tier")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
