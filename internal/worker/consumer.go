package worker

import (
	"context"
	"encoding/json"

	"github.com/storefront-cli/internal/constants"
	"github.com/storefront-cli/internal/logger"
	"github.com/storefront-cli/internal/provider"
	"github.com/storefront-cli/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
	mux.HandleFunc(queue.TaskOrderAutoDeliver, c.handleOrderAutoDeliver)
}

// handleOrderStatusNotify 记录订单状态变更（站内通知的最小实现）
func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	logger.Infow("worker_order_status_notify",
		"order_id", payload.OrderID,
		"order_number", payload.OrderNumber,
		"status", payload.Status,
	)
	return nil
}

// handleOrderAutoDeliver 将到期的已确认订单标记为已送达
func (c *Consumer) handleOrderAutoDeliver(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderAutoDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_auto_deliver_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_auto_deliver_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_auto_deliver_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_auto_deliver_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	// 只推进仍处于已确认状态的订单，已取消/已发货的订单不动
	if order.Status != constants.OrderStatusConfirmed {
		logger.Debugw("worker_order_auto_deliver_skip_status", "order_id", order.ID, "status", order.Status)
		return nil
	}

	if err := c.OrderService.MarkDelivered(order.ID); err != nil {
		logger.Warnw("worker_order_auto_deliver_failed", "order_id", order.ID, "error", err)
		return err
	}
	logger.Infow("worker_order_auto_delivered", "order_id", order.ID, "order_number", order.OrderNumber)
	return nil
}
