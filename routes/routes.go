package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/controllers"
	"storefront-api/middleware"
	"storefront-api/models"
)

// Controllers bundles the handler sets the router mounts.
type Controllers struct {
	Users    *controllers.UserController
	Products *controllers.ProductController
	Carts    *controllers.CartController
	Orders   *controllers.OrderController
}

// Register mounts the full API under /api plus the health probe.
func Register(r *gin.Engine, ctrl *Controllers, jwtSecret string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	auth := middleware.Auth(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	users := api.Group("/users")
	{
		users.POST("", ctrl.Users.Register)
		users.POST("/admin", ctrl.Users.RegisterAdmin)
		users.POST("/login", ctrl.Users.Login)

		users.GET("/profile/me", auth, ctrl.Users.Profile)
		users.PUT("/profile/me", auth, ctrl.Users.UpdateProfile)
		users.GET("/:id", auth, ctrl.Users.GetUser)
		users.PUT("/:id", auth, ctrl.Users.UpdateUser)

		users.GET("", auth, adminOnly, ctrl.Users.ListUsers)
		users.DELETE("/:id", auth, adminOnly, ctrl.Users.DeleteUser)
		users.DELETE("/email/:email", auth, adminOnly, ctrl.Users.DeleteUserByEmail)
		users.PUT("/:id/promote", auth, adminOnly, ctrl.Users.Promote)
	}

	products := api.Group("/products")
	{
		products.GET("", ctrl.Products.ListProducts)
		products.GET("/categories/list", ctrl.Products.ListCategories)
		products.GET("/category/:category", ctrl.Products.ListByCategory)
		products.GET("/:id", ctrl.Products.GetProduct)
		products.GET("/:id/image", ctrl.Products.StreamImage)

		products.POST("", auth, adminOnly, middleware.SingleImage(), middleware.MultipleImages(), ctrl.Products.CreateProduct)
		products.PUT("/:id", auth, adminOnly, middleware.SingleImage(), middleware.MultipleImages(), ctrl.Products.UpdateProduct)
		products.DELETE("/:id", auth, adminOnly, ctrl.Products.DeleteProduct)
		products.DELETE("/category/:category", auth, adminOnly, ctrl.Products.DeleteCategory)
	}

	carts := api.Group("/cart", auth)
	{
		carts.POST("", ctrl.Carts.SaveCart)
		carts.POST("/add-item", ctrl.Carts.AddItem)
		carts.DELETE("/remove-item/:productId", ctrl.Carts.RemoveItem)
		carts.POST("/generate-pdf/:userId", ctrl.Carts.GeneratePDF)
		carts.GET("/:userId", ctrl.Carts.GetCart)
		carts.DELETE("/:userId", ctrl.Carts.ClearCart)
	}

	orders := api.Group("/orders", auth)
	{
		orders.POST("/checkout", ctrl.Orders.Checkout)
		orders.GET("/user/:userId", ctrl.Orders.ListUserOrders)
		orders.GET("/:orderId", ctrl.Orders.GetOrder)
		orders.GET("/:orderId/pdf", ctrl.Orders.InvoicePDF)

		orders.GET("", adminOnly, ctrl.Orders.ListOrders)
		orders.PUT("/:orderId/status", adminOnly, ctrl.Orders.UpdateStatus)
		orders.DELETE("/:orderId/clear-status", adminOnly, ctrl.Orders.ClearStatus)
		orders.DELETE("/user/:userId/clear-all", adminOnly, ctrl.Orders.ClearUserOrders)
		orders.DELETE("/clear-all", adminOnly, ctrl.Orders.ClearAllOrders)
	}
}
