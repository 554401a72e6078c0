package repository

import (
	"errors"

	"github.com/storefront-cli/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	CountByUsernameOrEmail(username, email string) (int64, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UsernamesByIDs(ids []uint) (map[uint]string, error)
	ListAddresses(userID uint) ([]models.Address, error)
	GetAddress(userID, id uint) (*models.Address, error)
	CreateAddress(address *models.Address) error
	UpdateAddress(address *models.Address) error
	DeleteAddress(userID, id uint) error
	ClearDefaultAddress(userID uint) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CountByUsernameOrEmail 统计用户名或邮箱占用数
func (r *GormUserRepository) CountByUsernameOrEmail(username, email string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UsernamesByIDs 批量获取用户名
func (r *GormUserRepository) UsernamesByIDs(ids []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []struct {
		ID       uint
		Username string
	}
	if err := r.db.Model(&models.User{}).
		Select("id", "username").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row.Username
	}
	return result, nil
}

// ListAddresses 获取用户收货地址（默认地址优先）
func (r *GormUserRepository) ListAddresses(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, id ASC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// GetAddress 获取用户的指定地址
func (r *GormUserRepository) GetAddress(userID, id uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// CreateAddress 新增收货地址
func (r *GormUserRepository) CreateAddress(address *models.Address) error {
	return r.db.Create(address).Error
}

// UpdateAddress 更新收货地址
func (r *GormUserRepository) UpdateAddress(address *models.Address) error {
	return r.db.Save(address).Error
}

// DeleteAddress 删除收货地址
func (r *GormUserRepository) DeleteAddress(userID, id uint) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&models.Address{}).Error
}

// ClearDefaultAddress 取消用户当前的默认地址
func (r *GormUserRepository) ClearDefaultAddress(userID uint) error {
	return r.db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
