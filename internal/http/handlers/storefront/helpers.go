package storefront

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/storefront-cli/internal/logger"
	"github.com/storefront-cli/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError 输出 {"error": "..."} 错误体
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError 将业务错误映射为 HTTP 状态码
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(c, http.StatusBadRequest, "Insufficient stock")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(c, http.StatusBadRequest, "Quantity must be at least 1")
	case errors.Is(err, service.ErrProductUnavailable):
		respondError(c, http.StatusBadRequest, "Product is not available")
	case errors.Is(err, service.ErrCartEmpty):
		respondError(c, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, service.ErrOrderNotCancellable):
		respondError(c, http.StatusBadRequest, "Order cannot be cancelled")
	case errors.Is(err, service.ErrUserExists):
		respondError(c, http.StatusBadRequest, "Username or email already exists")
	case errors.Is(err, service.ErrPasswordMismatch):
		respondError(c, http.StatusBadRequest, "Passwords do not match")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrReviewExists):
		respondError(c, http.StatusBadRequest, "You have already reviewed this product")
	case errors.Is(err, service.ErrInvalidRating):
		respondError(c, http.StatusBadRequest, "Rating must be between 1 and 5")
	case errors.Is(err, service.ErrInvalidPaymentMethod):
		respondError(c, http.StatusBadRequest, "Unsupported payment method")
	default:
		logger.Errorw("handler_internal_error", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// getUserID 从鉴权中间件写入的上下文取用户 ID
func getUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	uid, ok := value.(uint)
	if !ok || uid == 0 {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	return uid, true
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusNotFound, "Not found")
		return 0, false
	}
	return uint(id), true
}

// parsePageQuery 解析 page 查询参数，非法时回落到第 1 页
func parsePageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
