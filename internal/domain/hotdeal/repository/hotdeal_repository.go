package repository

import (
	"digistore/internal/domain/hotdeal/model"

	"gorm.io/gorm"
)

type HotDealRepository interface {
	Create(deal *model.HotDeal) error
	GetByID(id string) (*model.HotDeal, error)
	ListActive() ([]model.HotDeal, error)
	ListAll() ([]model.HotDeal, error)
	Update(deal *model.HotDeal) error
	Delete(id string) error
}

type hotDealRepository struct {
	db *gorm.DB
}

func NewHotDealRepository(db *gorm.DB) HotDealRepository {
	return &hotDealRepository{db: db}
}

func (r *hotDealRepository) Create(deal *model.HotDeal) error {
	return r.db.Create(deal).Error
}

func (r *hotDealRepository) GetByID(id string) (*model.HotDeal, error) {
	var deal model.HotDeal
	if err := r.db.First(&deal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *hotDealRepository) ListActive() ([]model.HotDeal, error) {
	var deals []model.HotDeal
	err := r.db.Where("is_active = ?", true).
		Order("sort_order ASC, created_at DESC").Find(&deals).Error
	return deals, err
}

func (r *hotDealRepository) ListAll() ([]model.HotDeal, error) {
	var deals []model.HotDeal
	err := r.db.Order("sort_order ASC, created_at DESC").Find(&deals).Error
	return deals, err
}

func (r *hotDealRepository) Update(deal *model.HotDeal) error {
	return r.db.Save(deal).Error
}

func (r *hotDealRepository) Delete(id string) error {
	return r.db.Delete(&model.HotDeal{}, "id = ?", id).Error
}
