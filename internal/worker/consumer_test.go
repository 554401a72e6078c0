package worker

import (
	"context"
	"fmt"
	"testing"

	"github.com/storefront-cli/internal/config"
	"github.com/storefront-cli/internal/constants"
	"github.com/storefront-cli/internal/models"
	"github.com/storefront-cli/internal/provider"
	"github.com/storefront-cli/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	prev := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prev })

	cfg := &config.Config{
		Order: config.OrderConfig{TaxRate: "0.08", ShippingCost: "10.00"},
	}
	return NewConsumer(provider.NewContainer(cfg)), db
}

func seedOrder(t *testing.T, db *gorm.DB, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID:            1,
		OrderNumber:       "ORD-" + uuid.New().String()[:8],
		Status:            status,
		PaymentStatus:     constants.PaymentStatusPaid,
		ShippingAddressID: 1,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	return order
}

func TestAutoDeliverPromotesConfirmedOrder(t *testing.T) {
	consumer, db := newTestConsumer(t)
	order := seedOrder(t, db, constants.OrderStatusConfirmed)

	task, err := queue.NewOrderAutoDeliverTask(queue.OrderAutoDeliverPayload{OrderID: order.ID})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleOrderAutoDeliver(context.Background(), task); err != nil {
		t.Fatalf("handle auto deliver failed: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected status delivered, got %s", reloaded.Status)
	}
}

func TestAutoDeliverSkipsNonConfirmedOrder(t *testing.T) {
	consumer, db := newTestConsumer(t)
	order := seedOrder(t, db, constants.OrderStatusCancelled)

	task, err := queue.NewOrderAutoDeliverTask(queue.OrderAutoDeliverPayload{OrderID: order.ID})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleOrderAutoDeliver(context.Background(), task); err != nil {
		t.Fatalf("handler should skip quietly: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("cancelled order must stay cancelled, got %s", reloaded.Status)
	}
}

func TestAutoDeliverMissingOrderIsNoop(t *testing.T) {
	consumer, _ := newTestConsumer(t)

	task, err := queue.NewOrderAutoDeliverTask(queue.OrderAutoDeliverPayload{OrderID: 9999})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleOrderAutoDeliver(context.Background(), task); err != nil {
		t.Fatalf("missing order should not error: %v", err)
	}
}
