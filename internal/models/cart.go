package models

import "time"

// Cart 购物车表（每个用户一个）
// TotalItems / TotalPrice 由服务端在序列化前汇总，客户端原样透传
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`            // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`   // 用户ID
	CreatedAt time.Time `json:"created_at"`                      // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                      // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"` // 购物车项

	TotalItems int   `gorm:"-" json:"total_items"` // 商品总件数（派生）
	TotalPrice Money `gorm:"-" json:"total_price"` // 合计金额（派生）
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// ComputeTotals 汇总件数与金额
// 仅 devserver 在返回响应前调用，客户端一律使用服务端返回值
func (c *Cart) ComputeTotals() {
	total := ZeroMoney()
	count := 0
	for i := range c.Items {
		c.Items[i].ComputeTotal()
		count += c.Items[i].Quantity
		total = total.AddMoney(c.Items[i].TotalPrice)
	}
	c.TotalItems = count
	c.TotalPrice = total
}

// CartItem 购物车项表
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                 // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"-"`       // 购物车ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"-"`       // 商品ID
	Quantity  int       `gorm:"not null" json:"quantity"`                             // 数量（>=1）
	AddedAt   time.Time `gorm:"index" json:"added_at"`                                // 加入时间

	Product Product `gorm:"foreignKey:ProductID" json:"product"` // 商品快照

	TotalPrice Money `gorm:"-" json:"total_price"` // 行合计（派生）
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// ComputeTotal 计算行合计
func (i *CartItem) ComputeTotal() {
	i.TotalPrice = i.Product.Price.MulInt(i.Quantity)
	i.Product.IsInStock = i.Product.StockQuantity > 0
}
