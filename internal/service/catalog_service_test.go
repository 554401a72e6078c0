package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/storefront-cli/internal/models"
	"github.com/storefront-cli/internal/repository"

	"gorm.io/gorm"
)

func newCatalogService(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewCatalogService(
		testConfig(),
		repository.NewCategoryRepository(db),
		repository.NewProductRepository(db),
		repository.NewReviewRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func TestProductsPagination(t *testing.T) {
	svc, db := newCatalogService(t)

	category := &models.Category{Name: "electronics"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("seed category failed: %v", err)
	}
	for i := 0; i < 15; i++ {
		price, _ := models.NewMoneyFromString("10.00")
		product := &models.Product{
			CategoryID:    category.ID,
			Name:          fmt.Sprintf("item-%02d", i),
			Price:         price,
			StockQuantity: 1,
			IsActive:      i != 0, // 一个下架商品不参与列表
		}
		if err := db.Create(product).Error; err != nil {
			t.Fatalf("seed product failed: %v", err)
		}
	}

	page, err := svc.Products(repository.ProductListFilter{Page: 1})
	if err != nil {
		t.Fatalf("products failed: %v", err)
	}
	if page.Count != 14 {
		t.Fatalf("expected count 14, got %d", page.Count)
	}
	if len(page.Results) != 12 {
		t.Fatalf("expected page size 12, got %d", len(page.Results))
	}
	if !page.HasNext() || page.HasPrevious() {
		t.Fatalf("unexpected pagination flags: next=%v prev=%v", page.HasNext(), page.HasPrevious())
	}

	page2, err := svc.Products(repository.ProductListFilter{Page: 2})
	if err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}
	if len(page2.Results) != 2 {
		t.Fatalf("expected 2 results on page 2, got %d", len(page2.Results))
	}
	if page2.HasNext() || !page2.HasPrevious() {
		t.Fatalf("unexpected pagination flags on last page")
	}
}

func TestSearchMatchesNameAndDescription(t *testing.T) {
	svc, db := newCatalogService(t)
	seedProduct(t, db, "red lamp", "10.00", 1)
	seedProduct(t, db, "blue chair", "10.00", 1)

	page, err := svc.Search("lamp", 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].Name != "red lamp" {
		t.Fatalf("unexpected search results: %+v", page.Results)
	}
}

func TestFeaturedHonorsLimitAndActive(t *testing.T) {
	svc, db := newCatalogService(t)
	for i := 0; i < 10; i++ {
		seedProduct(t, db, fmt.Sprintf("feat-%02d", i), "10.00", 1)
	}
	var inactive models.Product
	if err := db.First(&inactive).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if err := db.Model(&inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	products, err := svc.Featured(context.Background())
	if err != nil {
		t.Fatalf("featured failed: %v", err)
	}
	if len(products) != 8 {
		t.Fatalf("expected 8 featured products, got %d", len(products))
	}
	for _, product := range products {
		if product.ID == inactive.ID {
			t.Fatal("inactive product should not be featured")
		}
	}
}

func TestCreateReviewUniquePerUser(t *testing.T) {
	svc, db := newCatalogService(t)
	user := seedUser(t, db, "alice")
	product := seedProduct(t, db, "widget", "10.00", 1)

	review, err := svc.CreateReview(user.ID, product.ID, 5, "great")
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if review.UserName != "alice" {
		t.Fatalf("expected reviewer name alice, got %s", review.UserName)
	}

	if _, err := svc.CreateReview(user.ID, product.ID, 4, "again"); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got: %v", err)
	}
	if _, err := svc.CreateReview(user.ID, product.ID, 9, "bad rating"); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got: %v", err)
	}

	detail, err := svc.ProductDetail(product.ID)
	if err != nil {
		t.Fatalf("product detail failed: %v", err)
	}
	if detail.AverageRating != 5 {
		t.Fatalf("expected average rating 5, got %v", detail.AverageRating)
	}
	if len(detail.Reviews) != 1 || detail.Reviews[0].UserName != "alice" {
		t.Fatalf("unexpected detail reviews: %+v", detail.Reviews)
	}
}
