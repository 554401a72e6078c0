package storefront

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/storefront-cli/internal/repository"
	"github.com/storefront-cli/internal/service"

	"github.com/gin-gonic/gin"
)

// productListResponse 商品分页响应
type productListResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// ReviewRequest 评论请求
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CatalogService.Categories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListProducts 商品列表（分类/搜索/排序/分页）
func (h *Handler) ListProducts(c *gin.Context) {
	filter := repository.ProductListFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Page:     parsePageQuery(c),
	}
	if raw := c.Query("category"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid category")
			return
		}
		filter.CategoryID = uint(categoryID)
	}

	page, err := h.CatalogService.Products(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPageResponse(c, page))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.CatalogService.ProductDetail(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListFeatured 精选商品
func (h *Handler) ListFeatured(c *gin.Context) {
	products, err := h.CatalogService.Featured(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// SearchProducts 商品搜索
func (h *Handler) SearchProducts(c *gin.Context) {
	page, err := h.CatalogService.Search(c.Query("q"), parsePageQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPageResponse(c, page))
}

// ListReviews 商品评论列表
func (h *Handler) ListReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.CatalogService.Reviews(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// CreateReview 创建商品评论
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.CatalogService.CreateReview(uid, id, req.Rating, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// buildPageResponse 组装 {count,next,previous,results} 分页结构
// next/previous 保留请求路径与查询串，仅替换 page
func buildPageResponse(c *gin.Context, page *service.ProductPage) productListResponse {
	resp := productListResponse{
		Count:   page.Count,
		Results: page.Results,
	}
	if page.HasNext() {
		url := pageURL(c, page.Page+1)
		resp.Next = &url
	}
	if page.HasPrevious() {
		url := pageURL(c, page.Page-1)
		resp.Previous = &url
	}
	return resp
}

func pageURL(c *gin.Context, page int) string {
	query := c.Request.URL.Query()
	query.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s?%s", c.Request.URL.Path, query.Encode())
}
