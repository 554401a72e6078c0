package router

import (
	"github.com/storefront-cli/internal/config"
	"github.com/storefront-cli/internal/http/handlers/storefront"
	"github.com/storefront-cli/internal/logger"
	"github.com/storefront-cli/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := storefront.New(c)
	authRequired := JWTAuthMiddleware(c.AuthService, c.UserRepo)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware())

	api := r.Group("/api")
	{
		// 商品目录（无需鉴权）
		store := api.Group("/store")
		{
			store.GET("/categories/", handler.ListCategories)
			store.GET("/products/", handler.ListProducts)
			store.GET("/products/:id/", handler.GetProduct)
			store.GET("/featured/", handler.ListFeatured)
			store.GET("/search/", handler.SearchProducts)
			store.GET("/products/:id/reviews/", handler.ListReviews)
			store.POST("/products/:id/reviews/", authRequired, handler.CreateReview)
		}

		// 用户认证与资料
		auth := api.Group("/auth")
		{
			auth.POST("/login/", handler.Login)
			auth.POST("/register/", handler.Register)
			auth.POST("/logout/", authRequired, handler.Logout)
			auth.GET("/profile/", authRequired, handler.GetProfile)
			auth.PUT("/profile/", authRequired, handler.UpdateProfile)
			auth.GET("/addresses/", authRequired, handler.ListAddresses)
			auth.POST("/addresses/", authRequired, handler.CreateAddress)
			auth.PUT("/addresses/:id/", authRequired, handler.UpdateAddress)
			auth.DELETE("/addresses/:id/", authRequired, handler.DeleteAddress)
		}

		// 购物车（全部需要鉴权）
		cart := api.Group("/cart")
		cart.Use(authRequired)
		{
			cart.GET("/", handler.GetCart)
			cart.POST("/add/", handler.AddToCart)
			cart.PUT("/items/:id/update/", handler.UpdateCartItem)
			cart.DELETE("/items/:id/remove/", handler.RemoveCartItem)
			cart.DELETE("/clear/", handler.ClearCart)
		}

		// 订单（全部需要鉴权）
		orders := api.Group("/orders")
		orders.Use(authRequired)
		{
			orders.GET("/", handler.ListOrders)
			orders.POST("/create/", handler.CreateOrder)
			orders.GET("/history/", handler.OrderHistory)
			orders.GET("/:id/", handler.GetOrder)
			orders.PUT("/:id/cancel/", handler.CancelOrder)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
