package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digistore/internal/domain/catalog/model"
	"digistore/internal/domain/catalog/repository"
	"digistore/pkg/cache"
	"digistore/pkg/logger"
	"digistore/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrNoPricing        = errors.New("product needs at least one pricing tier")
)

const (
	listCacheTTL  = 5 * time.Minute
	productTTL    = 10 * time.Minute
	categoriesKey = "catalog:categories"
)

type ProductInput struct {
	Name            string
	Description     string
	LongDescription string
	Image           string
	CategoryID      string
	Pricing         model.PricingTiers
	StockOut        bool
	Featured        bool
	SortOrder       int
	Status          int
}

type CategoryInput struct {
	Name      string
	Icon      string
	SortOrder int
	Status    int
}

type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter, page utils.Pagination) (*utils.PageResult, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetProductsByIDs(ids []string) ([]model.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, in CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type catalogService struct {
	repo  repository.CatalogRepository
	cache cache.Service
}

func NewCatalogService(repo repository.CatalogRepository, c cache.Service) CatalogService {
	return &catalogService{repo: repo, cache: c}
}

func listKey(filter repository.ProductFilter, page utils.Pagination) string {
	featured := "any"
	if filter.Featured != nil {
		featured = fmt.Sprintf("%t", *filter.Featured)
	}
	return fmt.Sprintf("catalog:products:%s:%s:%d:%d", filter.CategorySlug, featured, page.Page, page.Limit)
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter, page utils.Pagination) (*utils.PageResult, error) {
	offset, limit := page.GetPageOffset()

	key := listKey(filter, page)
	if s.cache != nil {
		var cached utils.PageResult
		var list []model.Product
		cached.List = &list
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	products, total, err := s.repo.ListProducts(filter, offset, limit)
	if err != nil {
		return nil, err
	}

	result := &utils.PageResult{
		List:  products,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, listCacheTTL); err != nil {
			logger.Warn("Product list cache set failed", zap.Error(err))
		}
	}

	return result, nil
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	key := "catalog:product:" + slug

	if s.cache != nil {
		var cached model.Product
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	p, err := s.repo.GetProductBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, p, productTTL); err != nil {
			logger.Warn("Product cache set failed", zap.Error(err))
		}
	}

	return p, nil
}

func (s *catalogService) GetProductsByIDs(ids []string) ([]model.Product, error) {
	return s.repo.GetProductsByIDs(ids)
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	if len(in.Pricing) == 0 {
		return nil, ErrNoPricing
	}
	if _, err := s.repo.GetCategoryByID(in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	slug := utils.Slugify(in.Name)
	if _, err := s.repo.GetProductBySlug(slug); err == nil {
		return nil, ErrSlugTaken
	}

	p := &model.Product{
		Name:            in.Name,
		Slug:            slug,
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
	if p.Status == 0 {
		p.Status = model.StatusActive
	}

	if err := s.repo.CreateProduct(p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	p, err := s.repo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if len(in.Pricing) == 0 {
		return nil, ErrNoPricing
	}
	if in.CategoryID != "" && in.CategoryID != p.CategoryID {
		if _, err := s.repo.GetCategoryByID(in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		p.CategoryID = in.CategoryID
	}

	if in.Name != "" && in.Name != p.Name {
		slug := utils.Slugify(in.Name)
		if existing, err := s.repo.GetProductBySlug(slug); err == nil && existing.ID != p.ID {
			return nil, ErrSlugTaken
		}
		p.Name = in.Name
		p.Slug = slug
	}

	p.Description = in.Description
	p.LongDescription = in.LongDescription
	p.Image = in.Image
	p.Pricing = in.Pricing
	p.StockOut = in.StockOut
	p.Featured = in.Featured
	p.SortOrder = in.SortOrder
	if in.Status != 0 {
		p.Status = in.Status
	}

	p.Category = nil
	if err := s.repo.UpdateProduct(p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.repo.GetProductByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.repo.DeleteProduct(id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	if s.cache != nil && activeOnly {
		var cached []model.Category
		if err := s.cache.Get(ctx, categoriesKey, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.repo.ListCategories(activeOnly)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && activeOnly {
		if err := s.cache.Set(ctx, categoriesKey, categories, listCacheTTL); err != nil {
			logger.Warn("Category cache set failed", zap.Error(err))
		}
	}

	return categories, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	slug := utils.Slugify(in.Name)
	if _, err := s.repo.GetCategoryBySlug(slug); err == nil {
		return nil, ErrSlugTaken
	}

	cat := &model.Category{
		Name:      in.Name,
		Slug:      slug,
		Icon:      in.Icon,
		SortOrder: in.SortOrder,
		Status:    in.Status,
	}
	if cat.Status == 0 {
		cat.Status = model.StatusActive
	}

	if err := s.repo.CreateCategory(cat); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return cat, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*model.Category, error) {
	cat, err := s.repo.GetCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if in.Name != "" && in.Name != cat.Name {
		slug := utils.Slugify(in.Name)
		if existing, err := s.repo.GetCategoryBySlug(slug); err == nil && existing.ID != cat.ID {
			return nil, ErrSlugTaken
		}
		cat.Name = in.Name
		cat.Slug = slug
	}
	cat.Icon = in.Icon
	cat.SortOrder = in.SortOrder
	if in.Status != 0 {
		cat.Status = in.Status
	}

	if err := s.repo.UpdateCategory(cat); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return cat, nil
}

// DeleteCategory removes the category with its products and their hot
// deals. The cascade is intentional; callers confirm in the admin UI.
func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.repo.GetCategoryByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := s.repo.DeleteCategoryCascade(id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePattern(ctx, "catalog:*"); err != nil {
		logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
