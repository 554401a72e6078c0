package repository

import (
	"errors"
	"strings"

	"github.com/storefront-cli/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	Featured(limit int) ([]models.Product, error)
	Create(product *models.Product) error
	DecrementStock(productID uint, quantity int) (int64, error)
	IncrementStock(productID uint, quantity int) error
	AverageRatings(productIDs []uint) (map[uint]float64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{}).Preload("Category")
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order(orderingClause(filter.Ordering)).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// orderingClause 将排序参数映射为白名单内的 SQL 排序
func orderingClause(ordering string) string {
	switch strings.TrimSpace(ordering) {
	case "price":
		return "price ASC"
	case "-price":
		return "price DESC"
	case "name":
		return "name ASC"
	case "-name":
		return "name DESC"
	case "created_at":
		return "created_at ASC"
	default:
		return "created_at DESC"
	}
}

// GetByID 根据 ID 获取商品（含分类、图册与评论）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").
		Preload("Images").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Featured 精选商品（最早上架的前 limit 个在售商品）
func (r *GormProductRepository) Featured(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Category").
		Where("is_active = ?", true).
		Order("id ASC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// DecrementStock 扣减库存，返回受影响行数
// 条件更新保证不会把库存扣成负数，行数为 0 表示库存不足
func (r *GormProductRepository) DecrementStock(productID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	return result.RowsAffected, result.Error
}

// IncrementStock 回补库存（取消订单）
func (r *GormProductRepository) IncrementStock(productID uint, quantity int) error {
	return r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error
}

// AverageRatings 批量计算商品平均评分
func (r *GormProductRepository) AverageRatings(productIDs []uint) (map[uint]float64, error) {
	result := make(map[uint]float64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		ProductID uint
		Average   float64
	}
	if err := r.db.Model(&models.Review{}).
		Select("product_id", "AVG(rating) AS average").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ProductID] = row.Average
	}
	return result, nil
}
