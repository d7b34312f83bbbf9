package repository

import (
	"errors"
	"strings"

	"digistore/internal/domain/coupon/model"

	"gorm.io/gorm"
)

// ErrLimitReached means the conditional redeem matched no rows: either the
// usage limit is exhausted or the coupon vanished underneath us.
var ErrLimitReached = errors.New("coupon usage limit reached")

type CouponRepository interface {
	Create(coupon *model.Coupon) error
	GetByID(id string) (*model.Coupon, error)
	GetByCode(code string) (*model.Coupon, error)
	List(offset, limit int) ([]model.Coupon, int64, error)
	Update(coupon *model.Coupon) error
	Delete(id string) error
	Redeem(id string) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	return r.db.Create(coupon).Error
}

func (r *couponRepository) GetByID(id string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.First(&coupon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) GetByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.Where("code = ?", strings.ToUpper(code)).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) List(offset, limit int) ([]model.Coupon, int64, error) {
	var total int64
	if err := r.db.Model(&model.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var coupons []model.Coupon
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&coupons).Error
	return coupons, total, err
}

func (r *couponRepository) Update(coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	return r.db.Save(coupon).Error
}

func (r *couponRepository) Delete(id string) error {
	return r.db.Delete(&model.Coupon{}, "id = ?", id).Error
}

// Redeem increments usage_count with an optimistic guard. Concurrent
// redemptions cannot race past the limit: the WHERE clause re-checks it
// inside the UPDATE.
func (r *couponRepository) Redeem(id string) error {
	result := r.db.Model(&model.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR usage_count < usage_limit)", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLimitReached
	}
	return nil
}
