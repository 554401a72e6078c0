package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/storefront-cli/internal/config"
	"github.com/storefront-cli/internal/constants"
	"github.com/storefront-cli/internal/logger"
	"github.com/storefront-cli/internal/models"
	"github.com/storefront-cli/internal/queue"
	"github.com/storefront-cli/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单业务服务
type OrderService struct {
	cfg         *config.Config
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		cfg:         cfg,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
	}
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	ShippingAddressID uint
	PaymentMethod     string
	Notes             string
}

// CreateOrder 用当前购物车创建订单
// 同一事务内扣库存、写订单与支付记录、清空购物车；任一商品库存不足则整单失败
func (s *OrderService) CreateOrder(userID uint, input CreateOrderInput) (*models.Order, error) {
	if !constants.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}

	address, err := s.userRepo.GetAddress(userID, input.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrNotFound
	}

	cart, err := s.cartRepo.GetWithItems(userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := models.ZeroMoney()
	for i := range cart.Items {
		subtotal = subtotal.AddMoney(cart.Items[i].Product.Price.MulInt(cart.Items[i].Quantity))
	}
	taxAmount, err := s.taxFor(subtotal)
	if err != nil {
		return nil, err
	}
	shippingCost, err := s.shippingCost()
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.generateOrderNumber()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:            userID,
		OrderNumber:       orderNumber,
		Status:            constants.OrderStatusConfirmed,
		PaymentStatus:     constants.PaymentStatusPaid,
		ShippingAddressID: address.ID,
		TotalAmount:       subtotal,
		ShippingCost:      shippingCost,
		TaxAmount:         taxAmount,
		Notes:             strings.TrimSpace(input.Notes),
	}
	for i := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: cart.Items[i].ProductID,
			Quantity:  cart.Items[i].Quantity,
			Price:     cart.Items[i].Product.Price,
		})
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productTx := s.productRepo.WithTx(tx)
		for i := range cart.Items {
			affected, err := productTx.DecrementStock(cart.Items[i].ProductID, cart.Items[i].Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("%w: product %d", ErrInsufficientStock, cart.Items[i].ProductID)
			}
		}

		orderTx := s.orderRepo.WithTx(tx)
		if err := orderTx.Create(order); err != nil {
			return err
		}
		payment := &models.Payment{
			OrderID:       order.ID,
			PaymentMethod: input.PaymentMethod,
			Amount:        subtotal.AddMoney(shippingCost).AddMoney(taxAmount),
			IsSuccessful:  true,
		}
		if err := orderTx.CreatePayment(payment); err != nil {
			return err
		}
		return s.cartRepo.WithTx(tx).ClearByCart(cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.enqueueStatusNotify(order)
	s.enqueueAutoDeliver(order)

	return s.GetOrder(userID, order.ID)
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(userID, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(userID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	order.ComputeTotals()
	return order, nil
}

// ListOrders 获取订单列表
func (s *OrderService) ListOrders(userID uint) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].ComputeTotals()
	}
	return orders, nil
}

// OrderHistory 历史订单（已送达或已取消）
func (s *OrderService) OrderHistory(userID uint) ([]models.Order, error) {
	orders, err := s.ListOrders(userID)
	if err != nil {
		return nil, err
	}
	history := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == constants.OrderStatusDelivered || order.Status == constants.OrderStatusCancelled {
			history = append(history, order)
		}
	}
	return history, nil
}

// CancelOrder 取消订单并回补库存
// 已发货、已送达或已取消的订单不可取消
func (s *OrderService) CancelOrder(userID, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(userID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	switch order.Status {
	case constants.OrderStatusShipped, constants.OrderStatusDelivered, constants.OrderStatusCancelled:
		return nil, ErrOrderNotCancellable
	}

	paymentStatus := order.PaymentStatus
	if paymentStatus == constants.PaymentStatusPaid {
		paymentStatus = constants.PaymentStatusRefunded
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productTx := s.productRepo.WithTx(tx)
		for i := range order.Items {
			if err := productTx.IncrementStock(order.Items[i].ProductID, order.Items[i].Quantity); err != nil {
				return err
			}
		}
		return s.orderRepo.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusCancelled, paymentStatus)
	})
	if err != nil {
		return nil, err
	}

	order.Status = constants.OrderStatusCancelled
	order.PaymentStatus = paymentStatus
	s.enqueueStatusNotify(order)
	order.ComputeTotals()
	return order, nil
}

// MarkDelivered 将已确认订单标记为已送达（worker 使用）
func (s *OrderService) MarkDelivered(orderID uint) error {
	return s.orderRepo.UpdateStatus(orderID, constants.OrderStatusDelivered, "")
}

// generateOrderNumber 生成 ORD- 前缀订单号，碰撞时重试
func (s *OrderService) generateOrderNumber() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
		number := "ORD-" + raw[:constants.OrderNumberParts]
		count, err := s.orderRepo.CountByOrderNumber(number)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", fmt.Errorf("order number collision")
}

func (s *OrderService) taxFor(subtotal models.Money) (models.Money, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s.cfg.Order.TaxRate))
	if err != nil {
		return models.Money{}, fmt.Errorf("invalid tax rate %q: %w", s.cfg.Order.TaxRate, err)
	}
	return models.NewMoneyFromDecimal(subtotal.Decimal.Mul(rate)), nil
}

func (s *OrderService) shippingCost() (models.Money, error) {
	cost, err := models.NewMoneyFromString(strings.TrimSpace(s.cfg.Order.ShippingCost))
	if err != nil {
		return models.Money{}, fmt.Errorf("invalid shipping cost %q: %w", s.cfg.Order.ShippingCost, err)
	}
	return cost, nil
}

func (s *OrderService) enqueueStatusNotify(order *models.Order) {
	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
	}); err != nil {
		logger.Warnw("order_status_notify_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

func (s *OrderService) enqueueAutoDeliver(order *models.Order) {
	delay := time.Duration(s.cfg.Order.DeliverDelaySeconds) * time.Second
	if err := s.queueClient.EnqueueOrderAutoDeliver(queue.OrderAutoDeliverPayload{OrderID: order.ID}, delay); err != nil {
		logger.Warnw("order_auto_deliver_enqueue_failed", "order_id", order.ID, "error", err)
	}
}
