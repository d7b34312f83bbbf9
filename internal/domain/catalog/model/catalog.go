package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	baseModel "digistore/pkg/model"
)

// Category groups products. Products reference it by foreign key; the
// display name and slug live only here.
type Category struct {
	baseModel.BaseModel
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Slug      string `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Icon      string `json:"icon"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
	Status    int    `gorm:"default:1" json:"status"`
}

// PricingTier is one purchasable duration of a digital product
// ("1 month", "12 months").
type PricingTier struct {
	DurationLabel string  `json:"durationLabel"`
	Price         float64 `json:"price"`
}

// PricingTiers is stored as a jsonb column; tier order is significant,
// index 0 is the default tier at checkout.
type PricingTiers []PricingTier

func (p PricingTiers) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PricingTiers) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for PricingTiers")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, p)
}

// Product is a digital good. Orders snapshot name/price/duration at
// creation time, so edits here never touch past orders.
type Product struct {
	baseModel.BaseModel
	Name            string       `gorm:"type:varchar(150);not null" json:"name"`
	Slug            string       `gorm:"type:varchar(180);uniqueIndex;not null" json:"slug"`
	Description     string       `json:"description"`
	LongDescription string       `json:"longDescription"`
	Image           string       `json:"image"`
	CategoryID      string       `gorm:"type:uuid;index;not null" json:"categoryId"`
	Category        *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Pricing         PricingTiers `gorm:"type:jsonb;not null" json:"pricing"`
	StockOut        bool         `gorm:"default:false" json:"stockOut"`
	Featured        bool         `gorm:"default:false" json:"featured"`
	SortOrder       int          `gorm:"default:0" json:"sortOrder"`
	Status          int          `gorm:"default:1" json:"status"`
}

const (
	StatusActive   = 1
	StatusDisabled = 2
)

// TierAt returns the tier at idx, falling back to tier 0.
func (p *Product) TierAt(idx int) (PricingTier, bool) {
	if len(p.Pricing) == 0 {
		return PricingTier{}, false
	}
	if idx < 0 || idx >= len(p.Pricing) {
		idx = 0
	}
	return p.Pricing[idx], true
}
