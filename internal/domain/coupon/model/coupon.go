package model

import (
	"time"

	baseModel "digistore/pkg/model"
)

// Coupon is a discount code. UsageCount only moves through the conditional
// update in the repository; nothing else may write it.
type Coupon struct {
	baseModel.BaseModel
	Code            string     `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`
	DiscountType    string     `gorm:"type:varchar(16);not null" json:"discountType"` // percentage | fixed
	DiscountValue   float64    `gorm:"not null" json:"discountValue"`
	MinimumAmount   float64    `json:"minimumAmount"`
	MaximumDiscount float64    `json:"maximumDiscount"` // 0 = uncapped, percentage type only
	UsageLimit      int        `json:"usageLimit"`      // 0 = unlimited
	UsageCount      int        `gorm:"default:0" json:"usageCount"`
	Status          int        `gorm:"default:1" json:"status"`
	ValidFrom       time.Time  `gorm:"not null" json:"validFrom"`
	ValidUntil      *time.Time `json:"validUntil,omitempty"`
}

const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"

	StatusActive   = 1
	StatusDisabled = 2
)
