package service

import (
	"context"
	"testing"

	catalogModel "digistore/internal/domain/catalog/model"
	catalogRepository "digistore/internal/domain/catalog/repository"
	catalogService "digistore/internal/domain/catalog/service"
	"digistore/internal/domain/hotdeal/model"
	"digistore/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockHotDealRepository is a mock of HotDealRepository
type MockHotDealRepository struct {
	mock.Mock
}

func (m *MockHotDealRepository) Create(deal *model.HotDeal) error {
	args := m.Called(deal)
	return args.Error(0)
}

func (m *MockHotDealRepository) GetByID(id string) (*model.HotDeal, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HotDeal), args.Error(1)
}

func (m *MockHotDealRepository) ListActive() ([]model.HotDeal, error) {
	args := m.Called()
	return args.Get(0).([]model.HotDeal), args.Error(1)
}

func (m *MockHotDealRepository) ListAll() ([]model.HotDeal, error) {
	args := m.Called()
	return args.Get(0).([]model.HotDeal), args.Error(1)
}

func (m *MockHotDealRepository) Update(deal *model.HotDeal) error {
	args := m.Called(deal)
	return args.Error(0)
}

func (m *MockHotDealRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCatalogService is a mock of catalog service
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context, filter catalogRepository.ProductFilter, page utils.Pagination) (*utils.PageResult, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.PageResult), args.Error(1)
}

func (m *MockCatalogService) GetProductBySlug(ctx context.Context, slug string) (*catalogModel.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Product), args.Error(1)
}

func (m *MockCatalogService) GetProductsByIDs(ids []string) ([]catalogModel.Product, error) {
	args := m.Called(ids)
	return args.Get(0).([]catalogModel.Product), args.Error(1)
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, in catalogService.ProductInput) (*catalogModel.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Product), args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id string, in catalogService.ProductInput) (*catalogModel.Product, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Product), args.Error(1)
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]catalogModel.Category, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]catalogModel.Category), args.Error(1)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, in catalogService.CategoryInput) (*catalogModel.Category, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Category), args.Error(1)
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, id string, in catalogService.CategoryInput) (*catalogModel.Category, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Category), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func activeProduct(id, name string) catalogModel.Product {
	p := catalogModel.Product{
		Name:   name,
		Slug:   "slug-" + id,
		Image:  "img-" + id,
		Status: catalogModel.StatusActive,
		Pricing: catalogModel.PricingTiers{
			{DurationLabel: "1 Month", Price: 4.99},
		},
	}
	p.ID = id
	return p
}

func testDeal(id, productID string) model.HotDeal {
	d := model.HotDeal{ProductID: productID, IsActive: true}
	d.ID = id
	return d
}

func TestListActive(t *testing.T) {
	t.Run("Deals resolve against live products", func(t *testing.T) {
		mockRepo := new(MockHotDealRepository)
		mockCatalog := new(MockCatalogService)
		service := NewHotDealService(mockRepo, mockCatalog)

		mockRepo.On("ListActive").Return([]model.HotDeal{testDeal("deal-1", "prod-1")}, nil)
		mockCatalog.On("GetProductsByIDs", []string{"prod-1"}).
			Return([]catalogModel.Product{activeProduct("prod-1", "Netflix Premium")}, nil)

		views, err := service.ListActive()

		assert.NoError(t, err)
		assert.Len(t, views, 1)
		assert.Equal(t, "Netflix Premium", views[0].Title)
		assert.Equal(t, "img-prod-1", views[0].Image)
	})

	t.Run("Deal overrides take precedence over product fields", func(t *testing.T) {
		mockRepo := new(MockHotDealRepository)
		mockCatalog := new(MockCatalogService)
		service := NewHotDealService(mockRepo, mockCatalog)

		deal := testDeal("deal-1", "prod-1")
		deal.Title = "Flash Sale"
		deal.Image = "custom.png"
		mockRepo.On("ListActive").Return([]model.HotDeal{deal}, nil)
		mockCatalog.On("GetProductsByIDs", []string{"prod-1"}).
			Return([]catalogModel.Product{activeProduct("prod-1", "Netflix Premium")}, nil)

		views, err := service.ListActive()

		assert.NoError(t, err)
		assert.Equal(t, "Flash Sale", views[0].Title)
		assert.Equal(t, "custom.png", views[0].Image)
	})

	t.Run("Deal with missing product is skipped not an error", func(t *testing.T) {
		mockRepo := new(MockHotDealRepository)
		mockCatalog := new(MockCatalogService)
		service := NewHotDealService(mockRepo, mockCatalog)

		mockRepo.On("ListActive").Return([]model.HotDeal{
			testDeal("deal-1", "ghost"),
			testDeal("deal-2", "prod-1"),
		}, nil)
		mockCatalog.On("GetProductsByIDs", []string{"ghost", "prod-1"}).
			Return([]catalogModel.Product{activeProduct("prod-1", "Spotify Premium")}, nil)

		views, err := service.ListActive()

		assert.NoError(t, err)
		assert.Len(t, views, 1)
		assert.Equal(t, "prod-1", views[0].ProductID)
	})

	t.Run("Inactive product is skipped", func(t *testing.T) {
		mockRepo := new(MockHotDealRepository)
		mockCatalog := new(MockCatalogService)
		service := NewHotDealService(mockRepo, mockCatalog)

		p := activeProduct("prod-1", "Canva Pro")
		p.Status = catalogModel.StatusDisabled
		mockRepo.On("ListActive").Return([]model.HotDeal{testDeal("deal-1", "prod-1")}, nil)
		mockCatalog.On("GetProductsByIDs", []string{"prod-1"}).Return([]catalogModel.Product{p}, nil)

		views, err := service.ListActive()

		assert.NoError(t, err)
		assert.Empty(t, views)
	})
}

func TestCreateDeal(t *testing.T) {
	t.Run("Unknown product rejected", func(t *testing.T) {
		mockRepo := new(MockHotDealRepository)
		mockCatalog := new(MockCatalogService)
		service := NewHotDealService(mockRepo, mockCatalog)

		mockCatalog.On("GetProductsByIDs", []string{"ghost"}).Return([]catalogModel.Product{}, nil)

		_, err := service.Create(DealInput{ProductID: "ghost"})

		assert.ErrorIs(t, err, ErrProductNotFound)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Valid product accepted", func(t *testing.T) {
		mockRepo := new(MockHotDealRepository)
		mockCatalog := new(MockCatalogService)
		service := NewHotDealService(mockRepo, mockCatalog)

		mockCatalog.On("GetProductsByIDs", []string{"prod-1"}).
			Return([]catalogModel.Product{activeProduct("prod-1", "Netflix Premium")}, nil)
		mockRepo.On("Create", mock.AnythingOfType("*model.HotDeal")).Return(nil)

		deal, err := service.Create(DealInput{ProductID: "prod-1", IsActive: true})

		assert.NoError(t, err)
		assert.Equal(t, "prod-1", deal.ProductID)
		mockRepo.AssertExpectations(t)
	})
}

func TestDeleteDeal(t *testing.T) {
	t.Run("Missing deal reported", func(t *testing.T) {
		mockRepo := new(MockHotDealRepository)
		service := NewHotDealService(mockRepo, new(MockCatalogService))

		mockRepo.On("GetByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

		err := service.Delete("ghost")

		assert.ErrorIs(t, err, ErrDealNotFound)
	})
}
