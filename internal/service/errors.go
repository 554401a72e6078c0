package service

import "errors"

// 业务错误集合，handler 层用 errors.Is 映射到 HTTP 状态码
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserExists           = errors.New("username or email already taken")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrProductUnavailable   = errors.New("product is not available")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrOrderNotCancellable  = errors.New("order can no longer be cancelled")
	ErrReviewExists         = errors.New("product already reviewed")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
)
