package model

import (
	baseModel "digistore/pkg/model"
)

// HotDeal pins a product on the storefront's deals strip. Title and image
// override the product's own when set.
type HotDeal struct {
	baseModel.BaseModel
	ProductID string `gorm:"type:uuid;index;not null" json:"productId"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	IsActive  bool   `gorm:"default:true" json:"isActive"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
}
