package http

import (
	"storefront/internal/models"
	"storefront/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Auth       service.AuthService
	Addresses  service.AddressService
	Carts      service.CartService
	Products   service.ProductService
	Categories service.CategoryService
	Orders     service.OrderService
}

func Router(svc Services, tokens service.TokenProvider, blacklist service.TokenBlacklist, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authH := NewAuthHandler(svc.Auth, log)
	addressH := NewAddressHandler(svc.Addresses, log)
	cartH := NewCartHandler(svc.Carts, log)
	productH := NewProductHandler(svc.Products, log)
	categoryH := NewCategoryHandler(svc.Categories, log)
	orderH := NewOrderHandler(svc.Orders, log)

	authed := AuthRequired(tokens, blacklist, log)
	sellerOnly := RequireRole(models.RoleSeller, models.RoleAdmin)
	adminOnly := RequireRole(models.RoleAdmin)

	api := r.Group("/api/v1")

	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/logout", authed, authH.Logout)
	api.GET("/auth/me", authed, authH.Me)

	api.GET("/categories", categoryH.List)
	api.GET("/categories/:id", categoryH.Get)
	api.POST("/categories", authed, adminOnly, categoryH.Create)
	api.PUT("/categories/:id", authed, adminOnly, categoryH.Update)
	api.DELETE("/categories/:id", authed, adminOnly, categoryH.Delete)

	api.GET("/products", productH.List)
	api.GET("/products/slug/:slug", productH.GetBySlug)
	api.GET("/products/:id", productH.Get)
	api.GET("/products/:id/variants", productH.ListVariants)

	seller := api.Group("/seller", authed, sellerOnly)
	seller.GET("/products", productH.ListMine)
	seller.POST("/products", productH.Create)
	seller.PATCH("/products/:id", productH.Update)
	seller.DELETE("/products/:id", productH.Delete)
	seller.POST("/products/:id/publish", productH.Publish)
	seller.POST("/products/:id/unpublish", productH.Unpublish)
	seller.POST("/products/:id/stock", productH.AdjustStock)
	seller.POST("/products/:id/variants", productH.CreateVariant)
	seller.PATCH("/variants/:variantId", productH.UpdateVariant)
	seller.DELETE("/variants/:variantId", productH.DeleteVariant)
	seller.POST("/variants/:variantId/stock", productH.AdjustVariantStock)
	seller.POST("/orders/:id/ship", orderH.Ship)

	addresses := api.Group("/addresses", authed)
	addresses.GET("", addressH.List)
	addresses.POST("", addressH.Create)
	addresses.PUT("/:id", addressH.Update)
	addresses.DELETE("/:id", addressH.Delete)
	addresses.POST("/:id/default", addressH.SetDefault)

	cart := api.Group("/cart", authed)
	cart.GET("", cartH.List)
	cart.GET("/count", cartH.Count)
	cart.POST("/items", cartH.Add)
	cart.PATCH("/items/:id/quantity", cartH.UpdateQuantity)
	cart.PATCH("/items/:id/selected", cartH.SetSelected)
	cart.DELETE("/items/:id", cartH.Remove)

	orders := api.Group("/orders", authed)
	orders.POST("", orderH.Checkout)
	orders.GET("", orderH.List)
	orders.GET("/:id", orderH.Get)
	orders.POST("/:id/cancel", orderH.Cancel)
	orders.POST("/:id/complete", orderH.Complete)

	// Processor callback authenticates out of band, not with user tokens.
	api.POST("/payments/callback", orderH.PaymentCallback)

	return r
}
