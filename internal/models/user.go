package models

import "time"

// User 用户表
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                  // 主键
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`  // 用户名
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`     // 邮箱
	PasswordHash string    `gorm:"not null" json:"-"`                     // 密码哈希
	FirstName    string    `gorm:"type:varchar(100)" json:"first_name"`   // 名
	LastName     string    `gorm:"type:varchar(100)" json:"last_name"`    // 姓
	PhoneNumber  string    `gorm:"type:varchar(30)" json:"phone_number"`  // 手机号
	DateOfBirth  string    `gorm:"type:varchar(10)" json:"date_of_birth"` // 出生日期（YYYY-MM-DD）
	CreatedAt    time.Time `json:"-"`                                     // 创建时间
	UpdatedAt    time.Time `json:"-"`                                     // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Address 收货地址表
type Address struct {
	ID            uint      `gorm:"primarykey" json:"id"`                              // 主键
	UserID        uint      `gorm:"not null;index" json:"-"`                           // 用户ID
	StreetAddress string    `gorm:"type:varchar(255);not null" json:"street_address"`  // 街道地址
	City          string    `gorm:"type:varchar(100);not null" json:"city"`            // 城市
	State         string    `gorm:"type:varchar(100)" json:"state"`                    // 省/州
	PostalCode    string    `gorm:"type:varchar(20)" json:"postal_code"`               // 邮编
	Country       string    `gorm:"type:varchar(100);not null" json:"country"`         // 国家
	IsDefault     bool      `gorm:"default:false" json:"is_default"`                   // 是否默认地址
	CreatedAt     time.Time `json:"-"`                                                 // 创建时间
	UpdatedAt     time.Time `json:"-"`                                                 // 更新时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
