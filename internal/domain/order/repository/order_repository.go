package repository

import (
	"time"

	"digistore/internal/domain/order/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	GetByID(id string) (*model.Order, error)
	GetByNumber(orderNumber string) (*model.Order, error)
	List(status string, offset, limit int) ([]model.Order, int64, error)
	Update(order *model.Order) error
	MarkPaid(id, paymentID string, paidAt time.Time) error
	MarkPaymentFailed(id, paymentID string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order and its item snapshots in one transaction.
func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(status string, offset, limit int) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := query.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) Update(order *model.Order) error {
	return r.db.Save(order).Error
}

// MarkPaid flips payment state only when it is still pending, making the
// callback idempotent at the database layer.
func (r *orderRepository) MarkPaid(id, paymentID string, paidAt time.Time) error {
	return r.db.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", id, model.PaymentPending).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentPaid,
			"status":         model.StatusProcessing,
			"payment_id":     paymentID,
			"paid_at":        paidAt,
		}).Error
}

func (r *orderRepository) MarkPaymentFailed(id, paymentID string) error {
	return r.db.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", id, model.PaymentPending).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentFailed,
			"payment_id":     paymentID,
		}).Error
}
