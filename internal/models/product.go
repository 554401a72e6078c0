package models

import "time"

// Product 商品表
// AverageRating / IsInStock 为服务端序列化前填充的派生字段，不落库
type Product struct {
	ID            uint      `gorm:"primarykey" json:"id"`                     // 主键
	CategoryID    uint      `gorm:"not null;index" json:"-"`                  // 分类ID
	Name          string    `gorm:"not null;index" json:"name"`               // 商品名称
	Description   string    `gorm:"type:text" json:"description"`             // 商品描述
	Price         Money     `gorm:"type:decimal(10,2);not null" json:"price"` // 单价
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"` // 库存数量
	Image         string    `gorm:"type:varchar(500)" json:"image,omitempty"` // 主图
	IsActive      bool      `gorm:"default:true;index" json:"is_active"`      // 是否上架
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                               // 更新时间

	AverageRating float64 `gorm:"-" json:"average_rating"` // 平均评分（派生）
	IsInStock     bool    `gorm:"-" json:"is_in_stock"`    // 是否有货（派生）

	Category Category       `gorm:"foreignKey:CategoryID" json:"category"`             // 分类信息
	Images   []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`      // 图册（仅详情）
	Reviews  []Review       `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`     // 评论（仅详情）
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// Decorate 填充派生字段
func (p *Product) Decorate(averageRating float64) {
	p.AverageRating = averageRating
	p.IsInStock = p.StockQuantity > 0
}

// ProductImage 商品图册
type ProductImage struct {
	ID        uint   `gorm:"primarykey" json:"id"`                  // 主键
	ProductID uint   `gorm:"not null;index" json:"-"`               // 商品ID
	Image     string `gorm:"type:varchar(500);not null" json:"image"` // 图片路径
	AltText   string `gorm:"type:varchar(255)" json:"alt_text"`     // 替代文本
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}

// Review 商品评论表
// 同一用户对同一商品仅允许一条评论
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                   // 主键
	ProductID uint      `gorm:"not null;uniqueIndex:idx_review_user_product" json:"-"` // 商品ID
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_user_product" json:"-"` // 用户ID
	Rating    int       `gorm:"not null" json:"rating"`                                 // 评分（1-5）
	Comment   string    `gorm:"type:text" json:"comment"`                               // 评论内容
	CreatedAt time.Time `json:"created_at"`                                             // 创建时间

	UserName string `gorm:"-" json:"user"` // 评论者用户名（派生）
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
