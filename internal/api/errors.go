package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized 服务端拒绝当前凭证（token 过期/无效）
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound 目标资源不存在（商品下架、购物车项已删除等）
	ErrNotFound = errors.New("not found")
	// ErrOutOfStock 库存不足
	ErrOutOfStock = errors.New("out of stock")
	// ErrBadRequest 请求参数被服务端拒绝
	ErrBadRequest = errors.New("bad request")
	// ErrServerError 服务端内部错误
	ErrServerError = errors.New("server error")
	// ErrUnreachable 传输层失败（网络不可达、超时）
	ErrUnreachable = errors.New("api unreachable")
	// ErrResponseInvalid 响应体无法解析
	ErrResponseInvalid = errors.New("response invalid")
)

// errorBody 服务端错误响应体
// 商城 API 的错误一律为 {"error": "..."}，兼容 {"detail": "..."}
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (b errorBody) message() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Detail
}

// mapStatusError 将 HTTP 状态码与错误消息映射到错误分类
func mapStatusError(statusCode int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := strings.TrimSpace(eb.message())

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return wrapMessage(ErrUnauthorized, msg)
	case statusCode == http.StatusNotFound:
		return wrapMessage(ErrNotFound, msg)
	case statusCode == http.StatusBadRequest:
		// 库存不足是下单/加购路径上唯一有业务含义的 400
		if strings.Contains(strings.ToLower(msg), "stock") {
			return wrapMessage(ErrOutOfStock, msg)
		}
		return wrapMessage(ErrBadRequest, msg)
	case statusCode >= http.StatusInternalServerError:
		return wrapMessage(ErrServerError, msg)
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrBadRequest, statusCode)
	}
}

func wrapMessage(sentinel error, msg string) error {
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

func readBody(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return nil
	}
	return body
}
