package service

import (
	"errors"

	catalogModel "digistore/internal/domain/catalog/model"
	catalogService "digistore/internal/domain/catalog/service"
	"digistore/internal/domain/hotdeal/model"
	"digistore/internal/domain/hotdeal/repository"
	"digistore/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDealNotFound    = errors.New("hot deal not found")
	ErrProductNotFound = errors.New("referenced product not found")
)

// DealView joins a deal with its live product. Title/image fall back to the
// product's own when the deal does not override them.
type DealView struct {
	ID        string                `json:"id"`
	ProductID string                `json:"productId"`
	Title     string                `json:"title"`
	Image     string                `json:"image"`
	Slug      string                `json:"slug"`
	Pricing   catalogModel.PricingTiers `json:"pricing"`
	StockOut  bool                  `json:"stockOut"`
	SortOrder int                   `json:"sortOrder"`
}

type DealInput struct {
	ProductID string
	Title     string
	Image     string
	IsActive  bool
	SortOrder int
}

type HotDealService interface {
	ListActive() ([]DealView, error)
	ListAll() ([]model.HotDeal, error)
	Create(in DealInput) (*model.HotDeal, error)
	Update(id string, in DealInput) (*model.HotDeal, error)
	Delete(id string) error
}

type hotDealService struct {
	repo    repository.HotDealRepository
	catalog catalogService.CatalogService
}

func NewHotDealService(repo repository.HotDealRepository, catalog catalogService.CatalogService) HotDealService {
	return &hotDealService{repo: repo, catalog: catalog}
}

// ListActive resolves deals against the live catalog. A deal whose product
// has disappeared is skipped, never an error; stale rows only get cleaned
// up by admin edits.
func (s *hotDealService) ListActive() ([]DealView, error) {
	deals, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}
	if len(deals) == 0 {
		return []DealView{}, nil
	}

	ids := make([]string, 0, len(deals))
	for _, d := range deals {
		ids = append(ids, d.ProductID)
	}
	products, err := s.catalog.GetProductsByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalogModel.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	views := make([]DealView, 0, len(deals))
	for _, d := range deals {
		p, ok := byID[d.ProductID]
		if !ok || p.Status != catalogModel.StatusActive {
			logger.Warn("Hot deal references missing or inactive product",
				zap.String("deal_id", d.ID),
				zap.String("product_id", d.ProductID),
			)
			continue
		}

		view := DealView{
			ID:        d.ID,
			ProductID: p.ID,
			Title:     d.Title,
			Image:     d.Image,
			Slug:      p.Slug,
			Pricing:   p.Pricing,
			StockOut:  p.StockOut,
			SortOrder: d.SortOrder,
		}
		if view.Title == "" {
			view.Title = p.Name
		}
		if view.Image == "" {
			view.Image = p.Image
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *hotDealService) ListAll() ([]model.HotDeal, error) {
	return s.repo.ListAll()
}

func (s *hotDealService) Create(in DealInput) (*model.HotDeal, error) {
	products, err := s.catalog.GetProductsByIDs([]string{in.ProductID})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}

	deal := &model.HotDeal{
		ProductID: in.ProductID,
		Title:     in.Title,
		Image:     in.Image,
		IsActive:  in.IsActive,
		SortOrder: in.SortOrder,
	}
	if err := s.repo.Create(deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *hotDealService) Update(id string, in DealInput) (*model.HotDeal, error) {
	deal, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	if in.ProductID != "" && in.ProductID != deal.ProductID {
		products, err := s.catalog.GetProductsByIDs([]string{in.ProductID})
		if err != nil {
			return nil, err
		}
		if len(products) == 0 {
			return nil, ErrProductNotFound
		}
		deal.ProductID = in.ProductID
	}

	deal.Title = in.Title
	deal.Image = in.Image
	deal.IsActive = in.IsActive
	deal.SortOrder = in.SortOrder

	if err := s.repo.Update(deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *hotDealService) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDealNotFound
		}
		return err
	}
	return s.repo.Delete(id)
}
