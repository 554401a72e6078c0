package models

import "time"

// Order 订单表
type Order struct {
	ID                uint      `gorm:"primarykey" json:"id"`                                 // 主键
	UserID            uint      `gorm:"not null;index" json:"-"`                              // 用户ID
	OrderNumber       string    `gorm:"uniqueIndex;not null" json:"order_number"`             // 订单号（ORD-XXXXXXXX）
	Status            string    `gorm:"type:varchar(20);not null;index" json:"status"`        // 订单状态
	PaymentStatus     string    `gorm:"type:varchar(20);not null" json:"payment_status"`      // 支付状态
	ShippingAddressID uint      `gorm:"not null" json:"-"`                                    // 收货地址ID
	TotalAmount       Money     `gorm:"type:decimal(10,2);not null" json:"total_amount"`      // 商品金额
	ShippingCost      Money     `gorm:"type:decimal(8,2);not null" json:"shipping_cost"`      // 运费
	TaxAmount         Money     `gorm:"type:decimal(8,2);not null" json:"tax_amount"`         // 税费
	Notes             string    `gorm:"type:text" json:"notes"`                               // 备注
	CreatedAt         time.Time `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt         time.Time `json:"updated_at"`                                           // 更新时间

	ShippingAddress Address     `gorm:"foreignKey:ShippingAddressID" json:"shipping_address"` // 收货地址
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`                      // 订单项

	FinalTotal Money `gorm:"-" json:"final_total"` // 应付总额（派生）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ComputeTotals 填充派生金额字段
func (o *Order) ComputeTotals() {
	for i := range o.Items {
		o.Items[i].ComputeTotal()
	}
	o.FinalTotal = o.TotalAmount.AddMoney(o.ShippingCost).AddMoney(o.TaxAmount)
}

// OrderItem 订单项表
// Price 为下单时的单价快照，商品后续调价不影响历史订单
type OrderItem struct {
	ID        uint  `gorm:"primarykey" json:"id"`                      // 主键
	OrderID   uint  `gorm:"not null;index" json:"-"`                   // 订单ID
	ProductID uint  `gorm:"not null" json:"-"`                         // 商品ID
	Quantity  int   `gorm:"not null" json:"quantity"`                  // 数量
	Price     Money `gorm:"type:decimal(10,2);not null" json:"price"`  // 下单时单价

	Product Product `gorm:"foreignKey:ProductID" json:"product"` // 商品信息

	TotalPrice Money `gorm:"-" json:"total_price"` // 行合计（派生）
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// ComputeTotal 计算行合计
func (i *OrderItem) ComputeTotal() {
	i.TotalPrice = i.Price.MulInt(i.Quantity)
	i.Product.IsInStock = i.Product.StockQuantity > 0
}

// Payment 支付记录表（仅服务端内部使用，不随订单返回）
type Payment struct {
	ID            uint      `gorm:"primarykey" json:"id"`                             // 主键
	OrderID       uint      `gorm:"not null;index" json:"order_id"`                   // 订单ID
	PaymentMethod string    `gorm:"type:varchar(30);not null" json:"payment_method"`  // 支付方式
	Amount        Money     `gorm:"type:decimal(10,2);not null" json:"amount"`        // 支付金额
	IsSuccessful  bool      `gorm:"default:false" json:"is_successful"`               // 是否成功
	CreatedAt     time.Time `json:"created_at"`                                       // 创建时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
