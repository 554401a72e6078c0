package main

import (
	"github.com/storefront-cli/internal/config"
	"github.com/storefront-cli/internal/logger"
	"github.com/storefront-cli/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Electronics", Description: "Phones, audio and smart devices"},
		{Name: "Books", Description: "Fiction and non-fiction titles"},
		{Name: "Home & Kitchen", Description: "Everyday household goods"},
		{Name: "Sports", Description: "Gear for training and outdoors"},
	}
	categoryIDs := map[string]uint{}
	for _, category := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", category.Name).First(&existing).Error; err == nil {
			stdLog.Printf("分类已存在: %s", category.Name)
			categoryIDs[category.Name] = existing.ID
			continue
		}
		if err := models.DB.Create(&category).Error; err != nil {
			stdLog.Printf("创建分类失败 %s: %v", category.Name, err)
			continue
		}
		stdLog.Printf("已创建分类: %s", category.Name)
		categoryIDs[category.Name] = category.ID
	}

	// 添加商品
	type seedProduct struct {
		category    string
		name        string
		description string
		price       string
		stock       int
	}
	seedProducts := []seedProduct{
		{"Electronics", "Wireless Earbuds", "Bluetooth 5.3 earbuds with noise cancellation and 24h battery", "79.99", 40},
		{"Electronics", "Smart Watch", "Fitness tracking, heart rate monitor, 7 day battery", "149.00", 25},
		{"Electronics", "Portable Speaker", "Waterproof speaker with deep bass and 12h playtime", "45.50", 60},
		{"Electronics", "USB-C Charger 65W", "GaN fast charger with two ports", "29.99", 120},
		{"Books", "The Silent Harbor", "A slow-burn mystery set in a fading port town", "14.99", 80},
		{"Books", "Learning Go", "A practical introduction to writing idiomatic Go", "39.95", 35},
		{"Books", "Cooking for One", "Ninety quick recipes for weeknight dinners", "22.00", 50},
		{"Home & Kitchen", "French Press", "Stainless steel 1L coffee press", "32.50", 45},
		{"Home & Kitchen", "Chef Knife 8in", "High carbon steel blade with walnut handle", "58.00", 30},
		{"Home & Kitchen", "Ceramic Dinner Set", "16 piece stoneware set, dishwasher safe", "89.99", 18},
		{"Sports", "Yoga Mat", "6mm non-slip mat with carry strap", "24.99", 75},
		{"Sports", "Adjustable Dumbbells", "Pair, 2.5 to 24kg per hand", "199.00", 12},
		{"Sports", "Trail Running Shoes", "Lightweight grip sole, sizes 36-46", "95.00", 28},
	}
	for _, sp := range seedProducts {
		categoryID, ok := categoryIDs[sp.category]
		if !ok {
			stdLog.Printf("跳过商品 %s: 分类 %s 不存在", sp.name, sp.category)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("name = ?", sp.name).First(&existing).Error; err == nil {
			stdLog.Printf("商品已存在: %s", sp.name)
			continue
		}
		price, err := models.NewMoneyFromString(sp.price)
		if err != nil {
			stdLog.Printf("商品价格非法 %s: %v", sp.name, err)
			continue
		}
		product := models.Product{
			CategoryID:    categoryID,
			Name:          sp.name,
			Description:   sp.description,
			Price:         price,
			StockQuantity: sp.stock,
			IsActive:      true,
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("创建商品失败 %s: %v", sp.name, err)
			continue
		}
		stdLog.Printf("已创建商品: %s (%s)", sp.name, sp.price)
	}

	// 添加演示用户
	demoUsers := []struct {
		username string
		email    string
		password string
	}{
		{"demo", "demo@example.com", "demo-password-123"},
		{"alice", "alice@example.com", "alice-password-123"},
	}
	for _, du := range demoUsers {
		var existing models.User
		if err := models.DB.Where("username = ?", du.username).First(&existing).Error; err == nil {
			stdLog.Printf("用户已存在: %s", du.username)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(du.password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("生成密码哈希失败 %s: %v", du.username, err)
			continue
		}
		user := models.User{
			Username:     du.username,
			Email:        du.email,
			PasswordHash: string(hash),
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("创建用户失败 %s: %v", du.username, err)
			continue
		}
		stdLog.Printf("已创建用户: %s / %s", du.username, du.password)
	}

	stdLog.Printf("数据填充完成")
}
