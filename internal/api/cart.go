package api

import (
	"context"
	"fmt"

	"github.com/storefront-cli/internal/models"
)

// AddToCartInput 加购请求
type AddToCartInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// cartItemEnvelope 加购/改数量响应体
type cartItemEnvelope struct {
	Message  string          `json:"message"`
	CartItem models.CartItem `json:"cart_item"`
}

// FetchCart 获取当前购物车
func (c *Client) FetchCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.get(ctx, "/cart/", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem 向购物车加入商品
// quantity 必须 >= 1，商品已在购物车时服务端累加数量
func (c *Client) AddItem(ctx context.Context, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrBadRequest)
	}
	var envelope cartItemEnvelope
	input := AddToCartInput{ProductID: productID, Quantity: quantity}
	if err := c.post(ctx, "/cart/add/", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.CartItem, nil
}

// UpdateItem 修改购物车项数量
// 要移除商品请调用 RemoveItem，quantity=0 不是合法输入
func (c *Client) UpdateItem(ctx context.Context, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrBadRequest)
	}
	var envelope cartItemEnvelope
	body := map[string]int{"quantity": quantity}
	if err := c.put(ctx, fmt.Sprintf("/cart/items/%d/update/", itemID), body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.CartItem, nil
}

// RemoveItem 移除购物车项
func (c *Client) RemoveItem(ctx context.Context, itemID uint) error {
	return c.delete(ctx, fmt.Sprintf("/cart/items/%d/remove/", itemID))
}

// ClearCart 清空购物车（幂等）
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart/clear/")
}
