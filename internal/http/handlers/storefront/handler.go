package storefront

import "github.com/storefront-cli/internal/provider"

// Handler 商城 API 处理器入口
// 响应结构与线上商城后端保持一致：成功返回资源本身或 {message, ...}，
// 失败一律返回 {"error": "..."}
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
