package service

import (
	"time"

	"github.com/storefront-cli/internal/models"
	"github.com/storefront-cli/internal/repository"
)

// CartService 购物车业务服务
// 件数与金额只在这里汇总一次，随响应返回，客户端不重复计算
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart 获取用户购物车（不存在时自动创建）
func (s *CartService) GetCart(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetWithItems(userID)
	if err != nil {
		return nil, err
	}
	cart.ComputeTotals()
	return cart, nil
}

// AddItem 加购商品
// 商品已在购物车中时数量累加，合计数量不得超过库存
func (s *CartService) AddItem(userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetItemByProduct(cart.ID, productID)
	if err != nil {
		return nil, err
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.StockQuantity {
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, requested); err != nil {
			return nil, err
		}
		existing.Quantity = requested
		existing.Product = *product
		existing.ComputeTotal()
		return existing, nil
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		return nil, err
	}
	item.Product = *product
	item.ComputeTotal()
	return item, nil
}

// UpdateItem 修改购物车项数量
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if quantity > item.Product.StockQuantity {
		return nil, ErrInsufficientStock
	}

	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	item.ComputeTotal()
	return item, nil
}

// RemoveItem 移除购物车项
func (s *CartService) RemoveItem(userID, itemID uint) error {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return err
	}
	item, err := s.cartRepo.GetItem(cart.ID, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	return s.cartRepo.DeleteItem(item.ID)
}

// ClearCart 清空购物车，空购物车重复清空视为成功
func (s *CartService) ClearCart(userID uint) error {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.ClearByCart(cart.ID)
}
