package repository

import (
	"digistore/internal/domain/catalog/model"
	hotdealModel "digistore/internal/domain/hotdeal/model"

	"gorm.io/gorm"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategorySlug string
	Featured     *bool
	ActiveOnly   bool
}

type CatalogRepository interface {
	CreateProduct(p *model.Product) error
	GetProductByID(id string) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	GetProductsByIDs(ids []string) ([]model.Product, error)
	ListProducts(filter ProductFilter, offset, limit int) ([]model.Product, int64, error)
	UpdateProduct(p *model.Product) error
	DeleteProduct(id string) error

	CreateCategory(cat *model.Category) error
	GetCategoryByID(id string) (*model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	ListCategories(activeOnly bool) ([]model.Category, error)
	UpdateCategory(cat *model.Category) error
	DeleteCategoryCascade(id string) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateProduct(p *model.Product) error {
	return r.db.Create(p).Error
}

func (r *catalogRepository) GetProductByID(id string) (*model.Product, error) {
	var p model.Product
	if err := r.db.Preload("Category").First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) GetProductBySlug(slug string) (*model.Product, error) {
	var p model.Product
	if err := r.db.Preload("Category").Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) GetProductsByIDs(ids []string) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *catalogRepository) ListProducts(filter ProductFilter, offset, limit int) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{}).Preload("Category")

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Featured != nil {
		query = query.Where("products.featured = ?", *filter.Featured)
	}
	if filter.ActiveOnly {
		query = query.Where("products.status = ?", model.StatusActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	err := query.Order("products.sort_order ASC, products.created_at DESC").
		Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}

func (r *catalogRepository) UpdateProduct(p *model.Product) error {
	return r.db.Save(p).Error
}

// DeleteProduct removes the product and any hot deals referencing it in one
// transaction, so deal listings never dangle.
func (r *catalogRepository) DeleteProduct(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&hotdealModel.HotDeal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

func (r *catalogRepository) CreateCategory(cat *model.Category) error {
	return r.db.Create(cat).Error
}

func (r *catalogRepository) GetCategoryByID(id string) (*model.Category, error) {
	var cat model.Category
	if err := r.db.First(&cat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *catalogRepository) GetCategoryBySlug(slug string) (*model.Category, error) {
	var cat model.Category
	if err := r.db.Where("slug = ?", slug).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *catalogRepository) ListCategories(activeOnly bool) ([]model.Category, error) {
	query := r.db.Model(&model.Category{})
	if activeOnly {
		query = query.Where("status = ?", model.StatusActive)
	}

	var categories []model.Category
	err := query.Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *catalogRepository) UpdateCategory(cat *model.Category) error {
	return r.db.Save(cat).Error
}

// DeleteCategoryCascade deletes the category, its products, and hot deals
// referencing those products, as one transaction. Destructive and
// irreversible.
func (r *catalogRepository) DeleteCategoryCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var productIDs []string
		if err := tx.Model(&model.Product{}).
			Where("category_id = ?", id).
			Pluck("id", &productIDs).Error; err != nil {
			return err
		}

		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).
				Delete(&hotdealModel.HotDeal{}).Error; err != nil {
				return err
			}
			if err := tx.Where("category_id = ?", id).
				Delete(&model.Product{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.Category{}, "id = ?", id).Error
	})
}
