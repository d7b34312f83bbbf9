package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	catalogModel "digistore/internal/domain/catalog/model"
	catalogService "digistore/internal/domain/catalog/service"
	couponService "digistore/internal/domain/coupon/service"
	"digistore/internal/domain/order/model"
	"digistore/internal/domain/order/pricing"
	"digistore/internal/domain/order/repository"
	siteconfigService "digistore/internal/domain/siteconfig/service"
	"digistore/pkg/metrics"
	"digistore/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// CouponRejectedError carries the validator's message up to the handler.
type CouponRejectedError struct {
	Reason  string
	Message string
}

func (e *CouponRejectedError) Error() string {
	return e.Message
}

// CartItem is one client-side cart entry. TierIndex selects the pricing
// duration; the first tier is the default.
type CartItem struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	TierIndex int    `json:"tierIndex" binding:"gte=0"`
}

// Customer contact fields collected at checkout.
type Customer struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, customer Customer, items []CartItem, couponCode string) (*model.Order, error)
	GetOrder(id string) (*model.Order, error)
	ListOrders(status string, page utils.Pagination) (*utils.PageResult, error)
	UpdateStatus(id, status string) (*model.Order, error)
	UpdateNotes(id, notes string) (*model.Order, error)
	RevenueByDay(ctx context.Context, days int) ([]repository.DailyRevenue, error)
	TopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error)
}

type orderService struct {
	repo       repository.OrderRepository
	reports    repository.ReportRepository
	catalog    catalogService.CatalogService
	coupons    couponService.CouponService
	siteconfig siteconfigService.SiteConfigService
	metrics    *metrics.Collector
}

func NewOrderService(
	repo repository.OrderRepository,
	reports repository.ReportRepository,
	catalog catalogService.CatalogService,
	coupons couponService.CouponService,
	siteconfig siteconfigService.SiteConfigService,
	collector *metrics.Collector,
) OrderService {
	return &orderService{
		repo:       repo,
		reports:    reports,
		catalog:    catalog,
		coupons:    coupons,
		siteconfig: siteconfig,
		metrics:    collector,
	}
}

// newOrderNumber builds a display id: date prefix for the back office,
// uuid fragment for collision resistance.
func newOrderNumber() string {
	return fmt.Sprintf("DG-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.New().String()[:8]))
}

// CreateOrder resolves the cart against the live catalog, prices it,
// applies the coupon, and persists the snapshot. The coupon is only
// redeemed later, when payment succeeds.
func (s *orderService) CreateOrder(ctx context.Context, customer Customer, items []CartItem, couponCode string) (*model.Order, error) {
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := s.catalog.GetProductsByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalogModel.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cfg, err := s.siteconfig.Get(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(items))
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, it.ProductID)
		}
		if p.StockOut || p.Status != catalogModel.StatusActive {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, p.Name)
		}
		tier, ok := p.TierAt(it.TierIndex)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no pricing", ErrProductUnavailable, p.Name)
		}

		lines = append(lines, pricing.Line{UnitPrice: tier.Price, Quantity: it.Quantity})
		orderItems = append(orderItems, model.OrderItem{
			ProductID:     p.ID,
			ProductName:   p.Name,
			DurationLabel: tier.DurationLabel,
			UnitPrice:     tier.Price,
			Quantity:      it.Quantity,
		})
	}

	subtotal := pricing.Subtotal(lines)

	var (
		discount float64
		couponID *string
		usedCode string
	)
	if couponCode != "" {
		result, err := s.coupons.Validate(couponCode, subtotal, cfg.Currency)
		if err != nil {
			return nil, err
		}
		if !result.Accepted {
			return nil, &CouponRejectedError{Reason: result.Reason, Message: result.Message}
		}
		discount = result.Discount
		couponID = &result.Coupon.ID
		usedCode = result.Coupon.Code
	}

	quote := pricing.Compute(lines, cfg.TaxRate, discount)

	order := &model.Order{
		OrderNumber:    newOrderNumber(),
		CustomerName:   customer.Name,
		CustomerEmail:  customer.Email,
		CustomerPhone:  customer.Phone,
		Items:          orderItems,
		Subtotal:       quote.Subtotal,
		Tax:            quote.Tax,
		Discount:       quote.Discount,
		Total:          quote.Total,
		Currency:       cfg.Currency,
		CouponID:       couponID,
		CouponCode:     usedCode,
		CouponDiscount: quote.Discount,
		Status:         model.StatusPending,
		PaymentStatus:  model.PaymentPending,
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}

	return order, nil
}

func (s *orderService) GetOrder(id string) (*model.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(status string, page utils.Pagination) (*utils.PageResult, error) {
	offset, limit := page.GetPageOffset()
	orders, total, err := s.repo.List(status, offset, limit)
	if err != nil {
		return nil, err
	}
	return &utils.PageResult{
		List:  orders,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

// UpdateStatus applies the order state machine. Illegal moves, including
// cancelling a completed order, are rejected.
func (s *orderService) UpdateStatus(id, status string) (*model.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	order.Status = status
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateNotes(id, notes string) (*model.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	order.Notes = notes
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) RevenueByDay(ctx context.Context, days int) ([]repository.DailyRevenue, error) {
	return s.reports.RevenueByDay(ctx, days)
}

func (s *orderService) TopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error) {
	return s.reports.TopProducts(ctx, limit)
}
