package model

import (
	baseModel "digistore/pkg/model"
)

// User is a back-office account. The storefront itself has no customer
// accounts; orders carry contact fields instead.
type User struct {
	baseModel.BaseModel
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         int    `gorm:"default:2" json:"role"`
	Status       int    `gorm:"default:1" json:"status"`
}

const (
	RoleAdmin = 1
	RoleStaff = 2

	StatusNormal   = 1
	StatusDisabled = 2
)
