package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"digistore/internal/domain/coupon/model"
	"digistore/internal/domain/coupon/repository"
	"digistore/pkg/metrics"
	"digistore/pkg/utils"

	"gorm.io/gorm"
)

// Rejection reasons. Each maps to a distinct message so the storefront can
// tell the customer exactly why a code was refused.
const (
	ReasonNotFound     = "coupon_not_found"
	ReasonInactive     = "coupon_inactive"
	ReasonNotStarted   = "coupon_not_started"
	ReasonExpired      = "coupon_expired"
	ReasonLimitReached = "usage_limit_reached"
	ReasonBelowMinimum = "below_minimum_amount"
)

var ErrCouponNotFound = errors.New("coupon not found")

// ValidationResult is the outcome of checking a code against a subtotal.
type ValidationResult struct {
	Accepted bool    `json:"accepted"`
	Discount float64 `json:"discount"`
	Reason   string  `json:"reason,omitempty"`
	Message  string  `json:"message,omitempty"`
	Coupon   *model.Coupon
}

type CouponInput struct {
	Code            string
	DiscountType    string
	DiscountValue   float64
	MinimumAmount   float64
	MaximumDiscount float64
	UsageLimit      int
	Status          int
	ValidFrom       time.Time
	ValidUntil      *time.Time
}

type CouponService interface {
	Validate(code string, subtotal float64, currency string) (*ValidationResult, error)
	Redeem(id string) error

	Create(in CouponInput) (*model.Coupon, error)
	List(page utils.Pagination) (*utils.PageResult, error)
	Update(id string, in CouponInput) (*model.Coupon, error)
	Delete(id string) error
}

type couponService struct {
	repo    repository.CouponRepository
	metrics *metrics.Collector
	now     func() time.Time
}

func NewCouponService(repo repository.CouponRepository, collector *metrics.Collector) CouponService {
	return &couponService{
		repo:    repo,
		metrics: collector,
		now:     time.Now,
	}
}

// Validate applies the coupon rules in order and computes the discount.
// It never mutates state; redemption happens at payment time.
func (s *couponService) Validate(code string, subtotal float64, currency string) (*ValidationResult, error) {
	coupon, err := s.repo.GetByCode(strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.reject(ReasonNotFound, "Coupon code not found"), nil
		}
		return nil, err
	}

	now := s.now()

	if coupon.Status != model.StatusActive {
		return s.reject(ReasonInactive, "Coupon is not active"), nil
	}
	if now.Before(coupon.ValidFrom) {
		return s.reject(ReasonNotStarted, "Coupon is not valid yet"), nil
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return s.reject(ReasonExpired, "Coupon has expired"), nil
	}
	if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
		return s.reject(ReasonLimitReached, "Coupon usage limit reached"), nil
	}
	if subtotal < coupon.MinimumAmount {
		msg := fmt.Sprintf("Minimum order amount %.2f %s required", coupon.MinimumAmount, currency)
		return s.reject(ReasonBelowMinimum, msg), nil
	}

	discount := computeDiscount(coupon, subtotal)

	return &ValidationResult{
		Accepted: true,
		Discount: discount,
		Coupon:   coupon,
	}, nil
}

// computeDiscount branches on discount type. The result never exceeds the
// subtotal, so totals cannot go negative.
func computeDiscount(coupon *model.Coupon, subtotal float64) float64 {
	var discount float64
	switch coupon.DiscountType {
	case model.TypePercentage:
		discount = subtotal * coupon.DiscountValue / 100
		if coupon.MaximumDiscount > 0 {
			discount = math.Min(discount, coupon.MaximumDiscount)
		}
	case model.TypeFixed:
		discount = coupon.DiscountValue
	}
	return math.Min(discount, subtotal)
}

func (s *couponService) reject(reason, message string) *ValidationResult {
	if s.metrics != nil {
		s.metrics.RecordCouponRejection(reason)
	}
	return &ValidationResult{
		Accepted: false,
		Reason:   reason,
		Message:  message,
	}
}

// Redeem consumes one use. Called once per paid order by the payment
// callback; the repository guard makes concurrent calls safe.
func (s *couponService) Redeem(id string) error {
	return s.repo.Redeem(id)
}

func (s *couponService) Create(in CouponInput) (*model.Coupon, error) {
	coupon := &model.Coupon{
		Code:            strings.ToUpper(in.Code),
		DiscountType:    in.DiscountType,
		DiscountValue:   in.DiscountValue,
		MinimumAmount:   in.MinimumAmount,
		MaximumDiscount: in.MaximumDiscount,
		UsageLimit:      in.UsageLimit,
		Status:          in.Status,
		ValidFrom:       in.ValidFrom,
		ValidUntil:      in.ValidUntil,
	}
	if coupon.Status == 0 {
		coupon.Status = model.StatusActive
	}
	if coupon.ValidFrom.IsZero() {
		coupon.ValidFrom = s.now()
	}

	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) List(page utils.Pagination) (*utils.PageResult, error) {
	offset, limit := page.GetPageOffset()
	coupons, total, err := s.repo.List(offset, limit)
	if err != nil {
		return nil, err
	}
	return &utils.PageResult{
		List:  coupons,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

func (s *couponService) Update(id string, in CouponInput) (*model.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	// full replace of the definition; only identity and UsageCount survive.
	// A PUT that leaves out a limit clears it instead of half-updating.
	// Status defaults to active as in Create; an omitted ValidFrom keeps
	// the stored start date.
	coupon.Code = strings.ToUpper(in.Code)
	coupon.DiscountType = in.DiscountType
	coupon.DiscountValue = in.DiscountValue
	coupon.MinimumAmount = in.MinimumAmount
	coupon.MaximumDiscount = in.MaximumDiscount
	coupon.UsageLimit = in.UsageLimit
	coupon.ValidUntil = in.ValidUntil
	coupon.Status = in.Status
	if coupon.Status == 0 {
		coupon.Status = model.StatusActive
	}
	if !in.ValidFrom.IsZero() {
		coupon.ValidFrom = in.ValidFrom
	}

	if err := s.repo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	return s.repo.Delete(id)
}
