package queue

import (
	"encoding/json"

	"github.com/storefront-cli/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
	// TaskOrderAutoDeliver 自动送达任务
	TaskOrderAutoDeliver = constants.TaskOrderAutoDeliver
)

// OrderStatusNotifyPayload 订单状态通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

// OrderAutoDeliverPayload 自动送达任务载荷
type OrderAutoDeliverPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderStatusNotifyTask 创建订单状态通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// NewOrderAutoDeliverTask 创建自动送达任务
func NewOrderAutoDeliverTask(payload OrderAutoDeliverPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderAutoDeliver, body), nil
}
