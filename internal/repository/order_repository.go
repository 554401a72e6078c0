package repository

import (
	"errors"

	"github.com/storefront-cli/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByIDForUser(userID, id uint) (*models.Order, error)
	ListByUser(userID uint) ([]models.Order, error)
	UpdateStatus(id uint, status, paymentStatus string) error
	CountByOrderNumber(orderNumber string) (int64, error)
	CreatePayment(payment *models.Payment) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单（级联写入订单项）
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID 获取订单（不限用户，worker 使用）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUser 获取用户的指定订单
func (r *GormOrderRepository) GetByIDForUser(userID, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("ShippingAddress").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Where("user_id = ? AND id = ?", userID, id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByUser 获取用户订单列表（按创建时间倒序）
func (r *GormOrderRepository) ListByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("ShippingAddress").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus 更新订单状态，空串字段不修改
func (r *GormOrderRepository) UpdateStatus(id uint, status, paymentStatus string) error {
	updates := map[string]interface{}{}
	if status != "" {
		updates["status"] = status
	}
	if paymentStatus != "" {
		updates["payment_status"] = paymentStatus
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// CountByOrderNumber 统计订单号占用数
func (r *GormOrderRepository) CountByOrderNumber(orderNumber string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreatePayment 写入支付记录
func (r *GormOrderRepository) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}
