package api

import (
	"context"
	"fmt"

	"github.com/storefront-cli/internal/models"
)

// LoginInput 登录请求
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterInput 注册请求
type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number,omitempty"`
}

// AuthResult 登录/注册响应
type AuthResult struct {
	User    models.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

// ProfileInput 资料更新请求，nil 字段不修改
type ProfileInput struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

// AddressInput 地址创建/更新请求
type AddressInput struct {
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	IsDefault     bool   `json:"is_default"`
}

// Login 登录并换取会话 token
func (c *Client) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.post(ctx, "/auth/login/", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register 注册新用户
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.post(ctx, "/auth/register/", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout 注销当前会话
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout/", nil, nil)
}

// Profile 获取当前用户资料
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/profile/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新当前用户资料
func (c *Client) UpdateProfile(ctx context.Context, input ProfileInput) (*models.User, error) {
	var user models.User
	if err := c.put(ctx, "/auth/profile/", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Addresses 获取收货地址列表
func (c *Client) Addresses(ctx context.Context) ([]models.Address, error) {
	var addresses []models.Address
	if err := c.get(ctx, "/auth/addresses/", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress 新增收货地址
func (c *Client) CreateAddress(ctx context.Context, input AddressInput) (*models.Address, error) {
	var address models.Address
	if err := c.post(ctx, "/auth/addresses/", input, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// UpdateAddress 更新收货地址
func (c *Client) UpdateAddress(ctx context.Context, id uint, input AddressInput) (*models.Address, error) {
	var address models.Address
	if err := c.put(ctx, fmt.Sprintf("/auth/addresses/%d/", id), input, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteAddress 删除收货地址
func (c *Client) DeleteAddress(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/auth/addresses/%d/", id))
}
