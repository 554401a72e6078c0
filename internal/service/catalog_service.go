package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storefront-cli/internal/cache"
	"github.com/storefront-cli/internal/config"
	"github.com/storefront-cli/internal/constants"
	"github.com/storefront-cli/internal/logger"
	"github.com/storefront-cli/internal/models"
	"github.com/storefront-cli/internal/repository"
)

const (
	cacheKeyCategories = "catalog:categories"
	cacheKeyFeatured   = "catalog:featured"
)

// CatalogService 商品目录服务
type CatalogService struct {
	cfg          *config.Config
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	reviewRepo   repository.ReviewRepository
	userRepo     repository.UserRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(
	cfg *config.Config,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
) *CatalogService {
	return &CatalogService{
		cfg:          cfg,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		reviewRepo:   reviewRepo,
		userRepo:     userRepo,
	}
}

// ProductPage 分页结果
type ProductPage struct {
	Count    int64
	Page     int
	PageSize int
	Results  []models.Product
}

// HasNext 是否还有下一页
func (p ProductPage) HasNext() bool {
	return int64(p.Page*p.PageSize) < p.Count
}

// HasPrevious 是否有上一页
func (p ProductPage) HasPrevious() bool {
	return p.Page > 1
}

func (s *CatalogService) cacheTTL() time.Duration {
	seconds := s.cfg.Store.CacheTTLSeconds
	if seconds <= 0 {
		seconds = 300
	}
	return time.Duration(seconds) * time.Second
}

// Categories 分类列表（可选 Redis 缓存）
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if hit, err := cache.GetJSON(ctx, cacheKeyCategories, &categories); err != nil {
		logger.Warnw("catalog_cache_read_failed", "key", cacheKeyCategories, "error", err)
	} else if hit {
		return categories, nil
	}

	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, cacheKeyCategories, categories, s.cacheTTL()); err != nil {
		logger.Warnw("catalog_cache_write_failed", "key", cacheKeyCategories, "error", err)
	}
	return categories, nil
}

// Products 商品列表
func (s *CatalogService) Products(filter repository.ProductListFilter) (*ProductPage, error) {
	filter.OnlyActive = true
	if filter.PageSize <= 0 {
		filter.PageSize = s.pageSize()
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	if err := s.decorateProducts(products); err != nil {
		return nil, err
	}

	return &ProductPage{
		Count:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Results:  products,
	}, nil
}

// Search 关键字搜索商品
func (s *CatalogService) Search(query string, page int) (*ProductPage, error) {
	return s.Products(repository.ProductListFilter{
		Search: strings.TrimSpace(query),
		Page:   page,
	})
}

// ProductDetail 商品详情（含评论与评论者用户名）
func (s *CatalogService) ProductDetail(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}

	ratings, err := s.productRepo.AverageRatings([]uint{product.ID})
	if err != nil {
		return nil, err
	}
	product.Decorate(ratings[product.ID])

	if err := s.fillReviewUsernames(product.Reviews); err != nil {
		return nil, err
	}
	return product, nil
}

// Featured 精选商品（可选 Redis 缓存）
func (s *CatalogService) Featured(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if hit, err := cache.GetJSON(ctx, cacheKeyFeatured, &products); err != nil {
		logger.Warnw("catalog_cache_read_failed", "key", cacheKeyFeatured, "error", err)
	} else if hit {
		return products, nil
	}

	limit := s.cfg.Store.FeaturedLimit
	if limit <= 0 {
		limit = constants.FeaturedLimit
	}
	products, err := s.productRepo.Featured(limit)
	if err != nil {
		return nil, err
	}
	if err := s.decorateProducts(products); err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, cacheKeyFeatured, products, s.cacheTTL()); err != nil {
		logger.Warnw("catalog_cache_write_failed", "key", cacheKeyFeatured, "error", err)
	}
	return products, nil
}

// Reviews 商品评论列表
func (s *CatalogService) Reviews(productID uint) ([]models.Review, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	reviews, err := s.reviewRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	if err := s.fillReviewUsernames(reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview 创建评论，同一用户对同一商品只允许一条
func (s *CatalogService) CreateReview(userID, productID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	existing, err := s.reviewRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	usernames, err := s.userRepo.UsernamesByIDs([]uint{userID})
	if err != nil {
		return nil, err
	}
	review.UserName = usernames[userID]
	return review, nil
}

func (s *CatalogService) pageSize() int {
	if s.cfg.Store.PageSize > 0 {
		return s.cfg.Store.PageSize
	}
	return constants.DefaultPageSize
}

func (s *CatalogService) decorateProducts(products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}
	ratings, err := s.productRepo.AverageRatings(ids)
	if err != nil {
		return err
	}
	for i := range products {
		products[i].Decorate(ratings[products[i].ID])
	}
	return nil
}

func (s *CatalogService) fillReviewUsernames(reviews []models.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(reviews))
	for i := range reviews {
		ids = append(ids, reviews[i].UserID)
	}
	usernames, err := s.userRepo.UsernamesByIDs(ids)
	if err != nil {
		return err
	}
	for i := range reviews {
		if name, ok := usernames[reviews[i].UserID]; ok {
			reviews[i].UserName = name
		} else {
			reviews[i].UserName = fmt.Sprintf("user-%d", reviews[i].UserID)
		}
	}
	return nil
}
