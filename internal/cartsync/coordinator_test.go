package cartsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/storefront-cli/internal/api"
	"github.com/storefront-cli/internal/models"
)

// fakeGateway 记录调用顺序的网关替身
// gate 非 nil 时每个变更在记录调用后阻塞，直到测试放行
type fakeGateway struct {
	mu       sync.Mutex
	calls    []string
	cart     *models.Cart
	fetchErr error
	mutErr   error
	gate     chan struct{}
	started  chan string
}

func (g *fakeGateway) record(call string) {
	g.mu.Lock()
	g.calls = append(g.calls, call)
	g.mu.Unlock()
	if g.started != nil {
		g.started <- call
	}
	if g.gate != nil {
		<-g.gate
	}
}

func (g *fakeGateway) recorded() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	copy(out, g.calls)
	return out
}

func (g *fakeGateway) setCart(cart *models.Cart) {
	g.mu.Lock()
	g.cart = cart
	g.mu.Unlock()
}

func (g *fakeGateway) FetchCart(ctx context.Context) (*models.Cart, error) {
	g.mu.Lock()
	g.calls = append(g.calls, "fetch")
	cart, err := g.cart, g.fetchErr
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (g *fakeGateway) AddItem(ctx context.Context, productID uint, quantity int) (*models.CartItem, error) {
	g.record(fmt.Sprintf("add:%d:%d", productID, quantity))
	if g.mutErr != nil {
		return nil, g.mutErr
	}
	return &models.CartItem{ProductID: productID, Quantity: quantity}, nil
}

func (g *fakeGateway) UpdateItem(ctx context.Context, itemID uint, quantity int) (*models.CartItem, error) {
	g.record(fmt.Sprintf("update:%d:%d", itemID, quantity))
	if g.mutErr != nil {
		return nil, g.mutErr
	}
	return &models.CartItem{ID: itemID, Quantity: quantity}, nil
}

func (g *fakeGateway) RemoveItem(ctx context.Context, itemID uint) error {
	g.record(fmt.Sprintf("remove:%d", itemID))
	return g.mutErr
}

func (g *fakeGateway) ClearCart(ctx context.Context) error {
	g.record("clear")
	return g.mutErr
}

func cartFixture(t *testing.T, totalItems int, totalPrice string) *models.Cart {
	t.Helper()
	return &models.Cart{
		ID:         1,
		TotalItems: totalItems,
		TotalPrice: mustMoney(t, totalPrice),
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newReadyCoordinator(t *testing.T, gw *fakeGateway) *Coordinator {
	t.Helper()
	c := NewCoordinator(gw, NewCache())
	t.Cleanup(c.Close)
	c.SetAuthenticated(true)
	waitFor(t, "initial load", func() bool { return c.State() == StateReady })
	return c
}

func TestCoordinatorRejectsMutationsWhenLoggedOut(t *testing.T) {
	gw := &fakeGateway{}
	c := NewCoordinator(gw, NewCache())
	defer c.Close()

	ctx := context.Background()
	if err := c.AddToCart(ctx, 1, 1); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got: %v", err)
	}
	if err := c.ClearCart(ctx); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got: %v", err)
	}
	if err := c.Refresh(ctx); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got: %v", err)
	}
	if calls := gw.recorded(); len(calls) != 0 {
		t.Fatalf("expected no gateway calls, got: %v", calls)
	}
	if c.State() != StateUnloaded {
		t.Fatalf("expected state unloaded, got: %s", c.State())
	}
}

func TestCoordinatorLoadsCartOnLogin(t *testing.T) {
	gw := &fakeGateway{}
	gw.setCart(cartFixture(t, 2, "20.00"))

	c := newReadyCoordinator(t, gw)

	if got := c.ItemCount(); got != 2 {
		t.Fatalf("expected item count 2, got: %d", got)
	}
	if got := c.Total(); got != "20.00" {
		t.Fatalf("expected total 20.00, got: %s", got)
	}
	if calls := gw.recorded(); len(calls) != 1 || calls[0] != "fetch" {
		t.Fatalf("expected a single fetch, got: %v", calls)
	}
}

func TestCoordinatorLoadFailureEntersErrorState(t *testing.T) {
	gw := &fakeGateway{fetchErr: api.ErrUnreachable}
	c := NewCoordinator(gw, NewCache())
	defer c.Close()

	c.SetAuthenticated(true)
	waitFor(t, "error state", func() bool { return c.State() == StateError })

	if c.Cart() != nil {
		t.Fatal("failed load should leave cache empty")
	}

	// 网络恢复后手动刷新可以走出 Error 状态
	gw.mu.Lock()
	gw.fetchErr = nil
	gw.cart = cartFixture(t, 1, "5.00")
	gw.mu.Unlock()

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh after recovery failed: %v", err)
	}
	if c.State() != StateReady {
		t.Fatalf("expected state ready, got: %s", c.State())
	}
	if got := c.Total(); got != "5.00" {
		t.Fatalf("expected total 5.00, got: %s", got)
	}
}

func TestCoordinatorMutationRefetchesServerTotals(t *testing.T) {
	gw := &fakeGateway{}
	gw.setCart(cartFixture(t, 2, "20.00"))
	c := newReadyCoordinator(t, gw)

	// 服务端把数量从 2 改到 3 后，购物车总额由服务端重新计算
	gw.setCart(cartFixture(t, 3, "30.00"))
	if err := c.UpdateCartItem(context.Background(), 7, 3); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got := c.ItemCount(); got != 3 {
		t.Fatalf("expected item count 3, got: %d", got)
	}
	if got := c.Total(); got != "30.00" {
		t.Fatalf("expected total 30.00, got: %s", got)
	}
	want := []string{"fetch", "update:7:3", "fetch"}
	got := gw.recorded()
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got: %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected calls %v, got: %v", want, got)
		}
	}
}

func TestCoordinatorQueuesMutationsFIFO(t *testing.T) {
	gw := &fakeGateway{
		gate:    make(chan struct{}),
		started: make(chan string, 8),
	}
	gw.setCart(cartFixture(t, 0, "0.00"))

	c := NewCoordinator(gw, NewCache())
	defer c.Close()
	c.SetAuthenticated(true)
	waitFor(t, "initial load", func() bool { return c.State() == StateReady })

	var wg sync.WaitGroup
	errs := make([]error, 3)
	submit := func(idx int, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[idx] = fn()
		}()
	}

	ctx := context.Background()
	submit(0, func() error { return c.AddToCart(ctx, 1, 1) })
	// 第一笔变更到达网关并阻塞后，再依次提交后续变更，保证入队顺序
	if got := <-gw.started; got != "add:1:1" {
		t.Fatalf("expected first mutation add:1:1, got: %s", got)
	}
	submit(1, func() error { return c.AddToCart(ctx, 2, 1) })
	time.Sleep(50 * time.Millisecond)
	submit(2, func() error { return c.RemoveFromCart(ctx, 9) })
	time.Sleep(50 * time.Millisecond)

	if got := c.State(); got != StateMutating {
		t.Fatalf("expected state mutating while a job is in flight, got: %s", got)
	}

	// 放行三笔变更
	for i := 0; i < 2; i++ {
		gw.gate <- struct{}{}
		<-gw.started
	}
	gw.gate <- struct{}{}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("mutation %d failed: %v", i, err)
		}
	}

	want := []string{"fetch", "add:1:1", "fetch", "add:2:1", "fetch", "remove:9", "fetch"}
	got := gw.recorded()
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got: %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected calls %v, got: %v", want, got)
		}
	}
}

func TestCoordinatorMutationFailureKeepsCache(t *testing.T) {
	gw := &fakeGateway{}
	gw.setCart(cartFixture(t, 2, "20.00"))
	c := newReadyCoordinator(t, gw)

	gw.mutErr = api.ErrOutOfStock
	err := c.AddToCart(context.Background(), 5, 99)
	if !errors.Is(err, api.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got: %v", err)
	}

	// 失败的变更不触发重新拉取，缓存保持上一次快照
	if got := c.ItemCount(); got != 2 {
		t.Fatalf("expected item count 2, got: %d", got)
	}
	if got := c.Total(); got != "20.00" {
		t.Fatalf("expected total 20.00, got: %s", got)
	}
	if c.State() != StateReady {
		t.Fatalf("expected state ready, got: %s", c.State())
	}
	want := []string{"fetch", "add:5:99"}
	got := gw.recorded()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected calls %v, got: %v", want, got)
	}
}

func TestCoordinatorResyncFailureEntersErrorState(t *testing.T) {
	gw := &fakeGateway{}
	gw.setCart(cartFixture(t, 1, "10.00"))
	c := newReadyCoordinator(t, gw)

	gw.mu.Lock()
	gw.fetchErr = api.ErrUnreachable
	gw.mu.Unlock()

	err := c.AddToCart(context.Background(), 2, 1)
	if !errors.Is(err, api.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got: %v", err)
	}
	if c.State() != StateError {
		t.Fatalf("expected state error, got: %s", c.State())
	}
	// 变更已生效但同步失败：缓存保留旧值而不是凭空清掉
	if got := c.Total(); got != "10.00" {
		t.Fatalf("expected stale total 10.00, got: %s", got)
	}
}

func TestCoordinatorLogoutClearsCache(t *testing.T) {
	gw := &fakeGateway{}
	gw.setCart(cartFixture(t, 3, "42.00"))
	c := newReadyCoordinator(t, gw)

	c.SetAuthenticated(false)

	if c.Cart() != nil {
		t.Fatal("logout should clear the snapshot")
	}
	if got := c.ItemCount(); got != 0 {
		t.Fatalf("expected item count 0, got: %d", got)
	}
	if c.State() != StateUnloaded {
		t.Fatalf("expected state unloaded, got: %s", c.State())
	}
	if err := c.AddToCart(context.Background(), 1, 1); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got: %v", err)
	}
}

func TestCoordinatorClearCartIsIdempotent(t *testing.T) {
	gw := &fakeGateway{}
	gw.setCart(cartFixture(t, 2, "20.00"))
	c := newReadyCoordinator(t, gw)

	gw.setCart(cartFixture(t, 0, "0.00"))
	ctx := context.Background()
	if err := c.ClearCart(ctx); err != nil {
		t.Fatalf("first clear failed: %v", err)
	}
	if err := c.ClearCart(ctx); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}

	if got := c.ItemCount(); got != 0 {
		t.Fatalf("expected item count 0, got: %d", got)
	}
	if got := c.Total(); got != "0.00" {
		t.Fatalf("expected total 0.00, got: %s", got)
	}
	if c.Cart() == nil {
		t.Fatal("cleared cart is still a loaded snapshot")
	}
}

func TestCoordinatorClosedRejectsWork(t *testing.T) {
	gw := &fakeGateway{}
	gw.setCart(cartFixture(t, 0, "0.00"))
	c := NewCoordinator(gw, NewCache())
	c.SetAuthenticated(true)
	waitFor(t, "initial load", func() bool { return c.State() == StateReady })
	c.Close()

	if err := c.Refresh(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got: %v", err)
	}
}
