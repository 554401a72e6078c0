package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/storefront-cli/internal/models"
)

// ProductFilters 商品列表过滤条件
type ProductFilters struct {
	CategoryID uint
	Search     string
	Ordering   string // price / created_at / name，前缀 - 表示倒序
	Page       int
}

// ProductList 分页商品列表
type ProductList struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []models.Product `json:"results"`
}

// ReviewInput 评论请求
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Categories 获取商品分类
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.get(ctx, "/store/categories/", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Products 获取商品列表（分页）
func (c *Client) Products(ctx context.Context, filters ProductFilters) (*ProductList, error) {
	query := url.Values{}
	if filters.CategoryID > 0 {
		query.Set("category", strconv.FormatUint(uint64(filters.CategoryID), 10))
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.Ordering != "" {
		query.Set("ordering", filters.Ordering)
	}
	if filters.Page > 0 {
		query.Set("page", strconv.Itoa(filters.Page))
	}
	var list ProductList
	if err := c.get(ctx, "/store/products/", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Product 获取商品详情（含图册与评论）
func (c *Client) Product(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := c.get(ctx, fmt.Sprintf("/store/products/%d/", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Featured 获取推荐商品
func (c *Client) Featured(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.get(ctx, "/store/featured/", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Search 按名称/描述搜索商品（分页）
func (c *Client) Search(ctx context.Context, keyword string, page int) (*ProductList, error) {
	query := url.Values{}
	query.Set("q", keyword)
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	var list ProductList
	if err := c.get(ctx, "/store/search/", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Reviews 获取商品评论
func (c *Client) Reviews(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := c.get(ctx, fmt.Sprintf("/store/products/%d/reviews/", productID), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview 发布商品评论
func (c *Client) CreateReview(ctx context.Context, productID uint, input ReviewInput) (*models.Review, error) {
	var review models.Review
	if err := c.post(ctx, fmt.Sprintf("/store/products/%d/reviews/", productID), input, &review); err != nil {
		return nil, err
	}
	return &review, nil
}
