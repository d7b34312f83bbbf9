package repository

import (
	"errors"

	"digistore/internal/domain/siteconfig/model"

	"gorm.io/gorm"
)

type SiteConfigRepository interface {
	Get() (*model.SiteConfig, error)
	Create(cfg *model.SiteConfig) error
	Update(cfg *model.SiteConfig) error
}

type siteConfigRepository struct {
	db *gorm.DB
}

func NewSiteConfigRepository(db *gorm.DB) SiteConfigRepository {
	return &siteConfigRepository{db: db}
}

var ErrNotSeeded = errors.New("site config not present")

func (r *siteConfigRepository) Get() (*model.SiteConfig, error) {
	var cfg model.SiteConfig
	if err := r.db.Order("created_at ASC").First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotSeeded
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *siteConfigRepository) Create(cfg *model.SiteConfig) error {
	return r.db.Create(cfg).Error
}

func (r *siteConfigRepository) Update(cfg *model.SiteConfig) error {
	return r.db.Save(cfg).Error
}
