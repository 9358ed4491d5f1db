package http

import (
	"net/http"

	"github.com/eshopcore/storefront/internal/adapter/config"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	userHandler *UserHandler,
	productHandler *ProductHandler,
	addressHandler *AddressHandler,
	cartHandler *CartHandler,
	checkoutHandler *CheckoutHandler,
	orderHandler *OrderHandler,
	webhookHandler *WebhookHandler) (*Router, error) {

	router := gin.New()

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		addresses := api.Group("/addresses")
		{
			addresses.Use(authCheck(tokenService))
			addresses.POST("", addressHandler.CreateAddress)
			addresses.GET("", addressHandler.ListAddresses)
		}

		cart := api.Group("/cart")
		{
			cart.Use(authCheck(tokenService))
			cart.GET("", cartHandler.GetCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PATCH("/items/:id", cartHandler.UpdateQuantity)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.DELETE("", cartHandler.ClearCart)
		}

		checkout := api.Group("/checkout")
		{
			checkout.Use(authCheck(tokenService))
			checkout.POST("", checkoutHandler.Checkout)
		}

		orders := api.Group("/orders")
		{
			orders.Use(authCheck(tokenService))
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
			orders.POST("/:id/refund", orderHandler.RequestRefund)
			orders.PATCH("/:id/status", adminCheck, orderHandler.UpdateStatus)
		}

		// Gateway calls carry their own signature, no bearer token.
		api.POST("/payment/webhook", webhookHandler.HandleWebhook)
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
