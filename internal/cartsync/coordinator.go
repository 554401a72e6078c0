package cartsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/storefront-cli/internal/logger"
	"github.com/storefront-cli/internal/models"
)

var (
	// ErrAuthenticationRequired 未登录时发起购物车操作
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrClosed 协调器已关闭
	ErrClosed = errors.New("cart coordinator closed")
)

// State 协调器状态
type State int

// 状态集合
const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateMutating
	StateError
)

// String 返回状态名
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateMutating:
		return "mutating"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Gateway 购物车远端网关
// *api.Client 即实现；测试中用记录调用的 fake 替代
type Gateway interface {
	FetchCart(ctx context.Context) (*models.Cart, error)
	AddItem(ctx context.Context, productID uint, quantity int) (*models.CartItem, error)
	UpdateItem(ctx context.Context, itemID uint, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, itemID uint) error
	ClearCart(ctx context.Context) error
}

const (
	defaultOpTimeout = 30 * time.Second
	jobQueueSize     = 64
)

// job 一次排队中的网关操作
// apply 为 nil 表示纯刷新（fetchCart）
type job struct {
	name  string
	apply func(ctx context.Context) error
	done  chan error
}

// Coordinator 购物车状态协调器
// 单实例串行化所有变更：同一时刻最多一个在途变更，其余按 FIFO 排队，
// 每次变更成功后必然跟一次 fetchCart 重新同步（金额与件数是购物车级
// 字段，单条变更响应不足以更新缓存）
type Coordinator struct {
	gateway   Gateway
	cache     *Cache
	opTimeout time.Duration

	mu            sync.Mutex
	state         State
	authenticated bool

	jobs chan *job
	quit chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewCoordinator 创建协调器并启动处理循环
// gateway 与 cache 必须在构造时给定，协调器是 cache 的唯一写入方
func NewCoordinator(gateway Gateway, cache *Cache) *Coordinator {
	c := &Coordinator{
		gateway:   gateway,
		cache:     cache,
		opTimeout: defaultOpTimeout,
		state:     StateUnloaded,
		jobs:      make(chan *job, jobQueueSize),
		quit:      make(chan struct{}),
	}
	c.wg.Add(1)
	go c.loop()
	return c
}

// Close 停止协调器，之后的操作返回 ErrClosed
func (c *Coordinator) Close() {
	c.once.Do(func() {
		close(c.quit)
	})
	c.wg.Wait()
}

// State 返回当前状态
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cart 返回当前快照（可能为 nil）
func (c *Coordinator) Cart() *models.Cart {
	return c.cache.Current()
}

// ItemCount 返回快照中的商品总件数
func (c *Coordinator) ItemCount() int {
	return c.cache.ItemCount()
}

// Total 返回快照中的合计金额字符串
func (c *Coordinator) Total() string {
	return c.cache.Total()
}

// SetAuthenticated 通知登录态变化
// 变为 true 时触发首次加载；变为 false 时立即清空缓存并回到 Unloaded，
// 已排队的变更会在执行时因登录态检查而失败
func (c *Coordinator) SetAuthenticated(authenticated bool) {
	c.mu.Lock()
	was := c.authenticated
	c.authenticated = authenticated
	if !authenticated {
		c.state = StateUnloaded
		c.mu.Unlock()
		c.cache.Clear()
		return
	}
	needLoad := !was && c.state == StateUnloaded
	c.mu.Unlock()

	if needLoad {
		j := &job{name: "load", done: make(chan error, 1)}
		select {
		case c.jobs <- j:
		case <-c.quit:
		}
	}
}

// Refresh 强制重新拉取购物车并等待完成
func (c *Coordinator) Refresh(ctx context.Context) error {
	return c.submit(ctx, "refresh", nil)
}

// AddToCart 加购商品
func (c *Coordinator) AddToCart(ctx context.Context, productID uint, quantity int) error {
	return c.submit(ctx, "add_to_cart", func(ctx context.Context) error {
		_, err := c.gateway.AddItem(ctx, productID, quantity)
		return err
	})
}

// UpdateCartItem 修改购物车项数量
func (c *Coordinator) UpdateCartItem(ctx context.Context, itemID uint, quantity int) error {
	return c.submit(ctx, "update_cart_item", func(ctx context.Context) error {
		_, err := c.gateway.UpdateItem(ctx, itemID, quantity)
		return err
	})
}

// RemoveFromCart 移除购物车项
func (c *Coordinator) RemoveFromCart(ctx context.Context, itemID uint) error {
	return c.submit(ctx, "remove_from_cart", func(ctx context.Context) error {
		return c.gateway.RemoveItem(ctx, itemID)
	})
}

// ClearCart 清空购物车
func (c *Coordinator) ClearCart(ctx context.Context) error {
	return c.submit(ctx, "clear_cart", func(ctx context.Context) error {
		return c.gateway.ClearCart(ctx)
	})
}

// submit 入队并等待结果
// 调用方放弃等待（ctx 取消）不会撤销已入队的操作，操作仍会执行并更新缓存
func (c *Coordinator) submit(ctx context.Context, name string, apply func(ctx context.Context) error) error {
	if !c.isAuthenticated() {
		return ErrAuthenticationRequired
	}
	j := &job{name: name, apply: apply, done: make(chan error, 1)}
	select {
	case c.jobs <- j:
	case <-c.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.quit:
		// 关闭时可能恰好入队成功：等处理循环退出后看任务是否已有结果
		c.wg.Wait()
		select {
		case err := <-j.done:
			return err
		default:
			return ErrClosed
		}
	}
}

func (c *Coordinator) isAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Coordinator) loop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.quit:
			c.drain()
			return
		case j := <-c.jobs:
			c.run(j)
		}
	}
}

// drain 关闭后将剩余排队任务以 ErrClosed 结束
func (c *Coordinator) drain() {
	for {
		select {
		case j := <-c.jobs:
			j.done <- ErrClosed
		default:
			return
		}
	}
}

func (c *Coordinator) run(j *job) {
	// 入队后才登出的任务在这里兜底拒绝
	if !c.isAuthenticated() {
		j.done <- ErrAuthenticationRequired
		return
	}

	if j.apply == nil {
		c.runLoad(j)
		return
	}

	c.setState(StateMutating)
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	if err := j.apply(ctx); err != nil {
		// 未做乐观更新，失败时缓存无需回滚
		c.setState(StateReady)
		logger.Warnw("cart_mutation_failed", "op", j.name, "error", err)
		j.done <- err
		return
	}

	cart, err := c.gateway.FetchCart(ctx)
	if err != nil {
		// 变更已生效但重新同步失败：缓存保持旧值，等待下一次刷新
		c.setState(StateError)
		logger.Errorw("cart_resync_failed", "op", j.name, "error", err)
		j.done <- err
		return
	}
	c.finish(cart)
	j.done <- nil
}

// finish 写入新快照
// 执行期间若已登出，保持登出语义：缓存保持清空，状态停留在 Unloaded
func (c *Coordinator) finish(cart *models.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.authenticated {
		return
	}
	c.cache.Replace(cart)
	c.state = StateReady
}

func (c *Coordinator) runLoad(j *job) {
	c.setState(StateLoading)
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	cart, err := c.gateway.FetchCart(ctx)
	if err != nil {
		c.setState(StateError)
		logger.Warnw("cart_load_failed", "op", j.name, "error", err)
		j.done <- err
		return
	}
	c.finish(cart)
	j.done <- nil
}
