package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	baseModel "digistore/pkg/model"
)

// Banner is one storefront hero slide.
type Banner struct {
	Image string `json:"image"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

type Banners []Banner

func (b Banners) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *Banners) Scan(value interface{}) error {
	if value == nil {
		*b = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for Banners")
		}
		bytes = []byte(s)
	}
	return json.Unmarshal(bytes, b)
}

// SiteConfig is a singleton row, created lazily with defaults. Gateway
// credentials stay in the environment; this holds only display settings.
type SiteConfig struct {
	baseModel.BaseModel
	Banners        Banners `gorm:"type:jsonb" json:"banners"`
	ContactEmail   string  `json:"contactEmail"`
	ContactPhone   string  `json:"contactPhone"`
	Currency       string  `gorm:"type:varchar(8);default:'USD'" json:"currency"`
	ConversionRate float64 `gorm:"default:1" json:"conversionRate"`
	// TaxRate is a fraction (0.1 = 10%). Digital goods default to 0.
	TaxRate            float64 `gorm:"default:0" json:"taxRate"`
	BannerIntervalSecs int     `gorm:"default:5" json:"bannerIntervalSecs"`
	DealsRotationSecs  int     `gorm:"default:8" json:"dealsRotationSecs"`
}
