package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storefront-cli/internal/config"
	"github.com/storefront-cli/internal/models"
	"github.com/storefront-cli/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	prev := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prev })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1},
		Store:  config.StoreConfig{PageSize: 12, FeaturedLimit: 8, CacheTTLSeconds: 60},
		Order:  config.OrderConfig{TaxRate: "0.08", ShippingCost: "10.00"},
	}
	return SetupRouter(cfg, provider.NewContainer(cfg)), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func registerUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register/", "", map[string]interface{}{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "secret-pass",
		"password_confirm": "secret-pass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatalf("register response missing token: %s", w.Body.String())
	}
	return token
}

func seedRouterProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()

	category := &models.Category{Name: "cat-" + name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("seed category failed: %v", err)
	}
	amount, err := models.NewMoneyFromString(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	product := &models.Product{
		CategoryID:    category.ID,
		Name:          name,
		Description:   name + " description",
		Price:         amount,
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func createAddress(t *testing.T, r *gin.Engine, token string) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/addresses/", token, map[string]interface{}{
		"street_address": "1 Main St",
		"city":           "Springfield",
		"country":        "US",
		"is_default":     true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create address status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	id, _ := resp["id"].(float64)
	if id == 0 {
		t.Fatalf("create address response missing id: %s", w.Body.String())
	}
	return uint(id)
}

func TestCartRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/cart/", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	resp := decodeBody(t, w)
	if resp["error"] != "Authentication required" {
		t.Fatalf("error message want Authentication required got %v", resp["error"])
	}

	w = doJSON(t, r, http.MethodPost, "/api/cart/add/", "not-a-token", map[string]interface{}{
		"product_id": 1,
		"quantity":   1,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status want 401 got %d", w.Code)
	}
}

func TestLoginWireContract(t *testing.T) {
	r, _ := newTestRouter(t)
	registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login/", "", map[string]interface{}{
		"username": "alice",
		"password": "secret-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["message"] != "Login successful" {
		t.Fatalf("login message want Login successful got %v", resp["message"])
	}
	if resp["token"] == "" || resp["token"] == nil {
		t.Fatal("login response missing token")
	}
	user, ok := resp["user"].(map[string]interface{})
	if !ok || user["username"] != "alice" {
		t.Fatalf("login response user malformed: %v", resp["user"])
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login/", "", map[string]interface{}{
		"username": "alice",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status want 401 got %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "Invalid credentials" {
		t.Fatalf("bad password error want Invalid credentials got %s", w.Body.String())
	}
}

func TestCartFlowWireContract(t *testing.T) {
	r, db := newTestRouter(t)
	token := registerUser(t, r, "bob")
	product := seedRouterProduct(t, db, "widget", "10.00", 5)

	w := doJSON(t, r, http.MethodPost, "/api/cart/add/", token, map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["message"] != "Item added to cart" {
		t.Fatalf("add message want Item added to cart got %v", resp["message"])
	}
	item, ok := resp["cart_item"].(map[string]interface{})
	if !ok {
		t.Fatalf("add response missing cart_item: %s", w.Body.String())
	}
	if item["total_price"] != "20.00" {
		t.Fatalf("cart_item total_price want 20.00 got %v", item["total_price"])
	}

	// 库存不足
	w = doJSON(t, r, http.MethodPost, "/api/cart/add/", token, map[string]interface{}{
		"product_id": product.ID,
		"quantity":   4,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("over stock status want 400 got %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "Insufficient stock" {
		t.Fatalf("over stock error want Insufficient stock got %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/cart/", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get cart status want 200 got %d", w.Code)
	}
	cart := decodeBody(t, w)
	if cart["total_items"] != float64(2) {
		t.Fatalf("cart total_items want 2 got %v", cart["total_items"])
	}
	if cart["total_price"] != "20.00" {
		t.Fatalf("cart total_price want 20.00 got %v", cart["total_price"])
	}
	items, ok := cart["items"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("cart items want 1 got %v", cart["items"])
	}
	itemID := uint(items[0].(map[string]interface{})["id"].(float64))

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cart/items/%d/update/", itemID), token, map[string]interface{}{
		"quantity": 5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	resp = decodeBody(t, w)
	if resp["message"] != "Cart item updated" {
		t.Fatalf("update message want Cart item updated got %v", resp["message"])
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/cart/items/%d/remove/", itemID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove status want 200 got %d", w.Code)
	}
	if decodeBody(t, w)["message"] != "Item removed from cart" {
		t.Fatalf("remove message mismatch: %s", w.Body.String())
	}

	// 清空是幂等的
	for i := 0; i < 2; i++ {
		w = doJSON(t, r, http.MethodDelete, "/api/cart/clear/", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("clear status want 200 got %d", w.Code)
		}
		if decodeBody(t, w)["message"] != "Cart cleared" {
			t.Fatalf("clear message mismatch: %s", w.Body.String())
		}
	}
}

func TestOrderFlowWireContract(t *testing.T) {
	r, db := newTestRouter(t)
	token := registerUser(t, r, "carol")
	product := seedRouterProduct(t, db, "gadget", "15.50", 4)
	addressID := createAddress(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/cart/add/", token, map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add status want 201 got %d", w.Code)
	}

	// 空备注、合法支付方式
	w = doJSON(t, r, http.MethodPost, "/api/orders/create/", token, map[string]interface{}{
		"shipping_address_id": addressID,
		"payment_method":      "credit_card",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create order status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["message"] != "Order created successfully" {
		t.Fatalf("create order message mismatch: %v", resp["message"])
	}
	order, ok := resp["order"].(map[string]interface{})
	if !ok {
		t.Fatalf("create order response missing order: %s", w.Body.String())
	}
	orderNumber, _ := order["order_number"].(string)
	if !strings.HasPrefix(orderNumber, "ORD-") {
		t.Fatalf("order_number want ORD- prefix got %q", orderNumber)
	}
	// 31.00 + 2.48 tax + 10.00 shipping
	if order["total_amount"] != "31.00" || order["tax_amount"] != "2.48" || order["final_total"] != "43.48" {
		t.Fatalf("order totals mismatch: %s", w.Body.String())
	}
	orderID := uint(order["id"].(float64))

	// 下单后购物车清空
	w = doJSON(t, r, http.MethodGet, "/api/cart/", token, nil)
	if decodeBody(t, w)["total_items"] != float64(0) {
		t.Fatalf("cart not cleared after order: %s", w.Body.String())
	}

	// 空购物车再下单
	w = doJSON(t, r, http.MethodPost, "/api/orders/create/", token, map[string]interface{}{
		"shipping_address_id": addressID,
		"payment_method":      "credit_card",
	})
	if w.Code != http.StatusBadRequest || decodeBody(t, w)["error"] != "Cart is empty" {
		t.Fatalf("empty cart want 400 Cart is empty got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel/", orderID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	resp = decodeBody(t, w)
	if resp["message"] != "Order cancelled" {
		t.Fatalf("cancel message mismatch: %v", resp["message"])
	}
	cancelled := resp["order"].(map[string]interface{})
	if cancelled["status"] != "cancelled" || cancelled["payment_status"] != "refunded" {
		t.Fatalf("cancelled order state mismatch: %s", w.Body.String())
	}

	// 重复取消
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel/", orderID), token, nil)
	if w.Code != http.StatusBadRequest || decodeBody(t, w)["error"] != "Order cannot be cancelled" {
		t.Fatalf("double cancel want 400 Order cannot be cancelled got %d %s", w.Code, w.Body.String())
	}

	// 取消的订单进入历史
	w = doJSON(t, r, http.MethodGet, "/api/orders/history/", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status want 200 got %d", w.Code)
	}
	var history []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history failed: %v", err)
	}
	if len(history) != 1 || history[0]["order_number"] != orderNumber {
		t.Fatalf("history want cancelled order got %s", w.Body.String())
	}
}

func TestProductListWireContract(t *testing.T) {
	r, db := newTestRouter(t)
	for i := 0; i < 14; i++ {
		seedRouterProduct(t, db, fmt.Sprintf("item-%02d", i), "5.00", 10)
	}

	w := doJSON(t, r, http.MethodGet, "/api/store/products/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status want 200 got %d", w.Code)
	}
	resp := decodeBody(t, w)
	if resp["count"] != float64(14) {
		t.Fatalf("count want 14 got %v", resp["count"])
	}
	if resp["previous"] != nil {
		t.Fatalf("previous want null got %v", resp["previous"])
	}
	next, ok := resp["next"].(string)
	if !ok || !strings.Contains(next, "page=2") {
		t.Fatalf("next want page=2 link got %v", resp["next"])
	}
	results, ok := resp["results"].([]interface{})
	if !ok || len(results) != 12 {
		t.Fatalf("results want 12 got %d", len(results))
	}

	w = doJSON(t, r, http.MethodGet, "/api/store/products/?page=2", "", nil)
	resp = decodeBody(t, w)
	if resp["next"] != nil {
		t.Fatalf("last page next want null got %v", resp["next"])
	}
	if prev, ok := resp["previous"].(string); !ok || !strings.Contains(prev, "page=1") {
		t.Fatalf("previous want page=1 link got %v", resp["previous"])
	}

	w = doJSON(t, r, http.MethodGet, "/api/store/products/?category=abc", "", nil)
	if w.Code != http.StatusBadRequest || decodeBody(t, w)["error"] != "Invalid category" {
		t.Fatalf("bad category want 400 Invalid category got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/store/products/999/", "", nil)
	if w.Code != http.StatusNotFound || decodeBody(t, w)["error"] != "Not found" {
		t.Fatalf("missing product want 404 Not found got %d %s", w.Code, w.Body.String())
	}
}
