package api

import (
	"context"
	"fmt"

	"github.com/storefront-cli/internal/models"
)

// CreateOrderInput 下单请求
type CreateOrderInput struct {
	ShippingAddressID uint   `json:"shipping_address_id"`
	PaymentMethod     string `json:"payment_method"`
	Notes             string `json:"notes,omitempty"`
}

// orderEnvelope 下单/取消响应体
type orderEnvelope struct {
	Message string       `json:"message"`
	Order   models.Order `json:"order"`
}

// Orders 获取订单列表
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order 获取订单详情
func (c *Client) Order(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := c.get(ctx, fmt.Sprintf("/orders/%d/", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder 用当前购物车创建订单
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	var envelope orderEnvelope
	if err := c.post(ctx, "/orders/create/", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Order, nil
}

// CancelOrder 取消订单（已发货/已送达订单不可取消）
func (c *Client) CancelOrder(ctx context.Context, id uint) (*models.Order, error) {
	var envelope orderEnvelope
	if err := c.put(ctx, fmt.Sprintf("/orders/%d/cancel/", id), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Order, nil
}

// OrderHistory 获取历史订单（按时间倒序）
func (c *Client) OrderHistory(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/orders/history/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
