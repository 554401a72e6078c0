package service

import (
	"errors"
	"testing"

	"github.com/storefront-cli/internal/repository"
)

func newCartService(t *testing.T) (*CartService, *cartFixtures) {
	t.Helper()
	db := newTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := seedUser(t, db, "alice")
	product := seedProduct(t, db, "widget", "10.00", 5)
	return svc, &cartFixtures{userID: user.ID, productID: product.ID}
}

type cartFixtures struct {
	userID    uint
	productID uint
}

func TestCartAddItemIncrementsQuantity(t *testing.T) {
	svc, fx := newCartService(t)

	item, err := svc.AddItem(fx.userID, fx.productID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if item.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", item.Quantity)
	}

	item, err = svc.AddItem(fx.userID, fx.productID, 1)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if item.Quantity != 3 {
		t.Fatalf("expected quantity 3 after increment, got %d", item.Quantity)
	}

	cart, err := svc.GetCart(fx.userID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected a single cart item, got %d", len(cart.Items))
	}
	if cart.TotalItems != 3 {
		t.Fatalf("expected total items 3, got %d", cart.TotalItems)
	}
	if got := cart.TotalPrice.String(); got != "30.00" {
		t.Fatalf("expected total price 30.00, got %s", got)
	}
}

func TestCartAddItemRejectsInsufficientStock(t *testing.T) {
	svc, fx := newCartService(t)

	if _, err := svc.AddItem(fx.userID, fx.productID, 6); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	// 已有 4 件时再加 2 件也要被拒绝
	if _, err := svc.AddItem(fx.userID, fx.productID, 4); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.AddItem(fx.userID, fx.productID, 2); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock on increment, got: %v", err)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	svc, fx := newCartService(t)

	if _, err := svc.AddItem(fx.userID, fx.productID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got: %v", err)
	}
	if _, err := svc.AddItem(fx.userID, 9999, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown product, got: %v", err)
	}
}

func TestCartUpdateItem(t *testing.T) {
	svc, fx := newCartService(t)

	item, err := svc.AddItem(fx.userID, fx.productID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	updated, err := svc.UpdateItem(fx.userID, item.ID, 3)
	if err != nil {
		t.Fatalf("update item failed: %v", err)
	}
	if updated.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", updated.Quantity)
	}
	if got := updated.TotalPrice.String(); got != "30.00" {
		t.Fatalf("expected line total 30.00, got %s", got)
	}

	if _, err := svc.UpdateItem(fx.userID, item.ID, 6); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}
	if _, err := svc.UpdateItem(fx.userID, item.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got: %v", err)
	}
	if _, err := svc.UpdateItem(fx.userID, 9999, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	svc, fx := newCartService(t)

	item, err := svc.AddItem(fx.userID, fx.productID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := svc.RemoveItem(fx.userID, item.ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if err := svc.RemoveItem(fx.userID, item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing item, got: %v", err)
	}

	if _, err := svc.AddItem(fx.userID, fx.productID, 2); err != nil {
		t.Fatalf("re-add failed: %v", err)
	}
	if err := svc.ClearCart(fx.userID); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := svc.ClearCart(fx.userID); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}

	cart, err := svc.GetCart(fx.userID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.TotalItems != 0 || len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
	if got := cart.TotalPrice.String(); got != "0.00" {
		t.Fatalf("expected total 0.00, got %s", got)
	}
}
