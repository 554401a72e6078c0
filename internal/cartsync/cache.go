package cartsync

import (
	"sync"

	"github.com/storefront-cli/internal/models"
)

// Cache 购物车快照缓存
// 只保存最近一次成功 fetchCart 的结果；件数与金额一律取服务端返回值，
// 绝不在客户端由条目列表重新计算，避免与服务端的税费/折扣口径漂移
type Cache struct {
	mu       sync.RWMutex
	snapshot *models.Cart
}

// NewCache 创建空缓存
func NewCache() *Cache {
	return &Cache{}
}

// Current 返回当前快照，未加载或未登录时为 nil
// 返回值仅供读取，调用方不得修改
func (c *Cache) Current() *models.Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// ItemCount 返回服务端统计的商品总件数，快照缺失时为 0
func (c *Cache) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return 0
	}
	return c.snapshot.TotalItems
}

// Total 返回服务端计算的合计金额字符串，快照缺失时为 "0.00"
func (c *Cache) Total() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return "0.00"
	}
	return c.snapshot.TotalPrice.String()
}

// Replace 原子替换快照
func (c *Cache) Replace(cart *models.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = cart
}

// Clear 置空快照（登出或会话失效）
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}
