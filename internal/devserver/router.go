package devserver

import (
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化联调后端路由。路径与客户端契约一一对应。
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	gin.SetMode(ginMode(cfg.Server.Mode))
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))

	auth := UserAuthMiddleware(cfg.JWT.SecretKey)

	cart := r.Group("/cart", auth)
	{
		cart.GET("", handler.GetCart)
		cart.PUT("/items/:id", handler.UpdateCartItem)
		cart.DELETE("/items/:id", handler.RemoveCartItem)
	}

	payment := r.Group("/payment")
	{
		payment.POST("/create-checkout-session", auth, handler.CreateCheckoutSession)
		payment.GET("/session/:id", auth, handler.GetPaymentSession)
		// 模拟托管收银台回传，无用户凭证
		payment.POST("/session/:id/complete", handler.CompletePaymentSession)
	}

	orders := r.Group("/orders", auth)
	{
		orders.POST("", handler.CreateOrder)
		orders.GET("/:order_no", handler.GetOrder)
	}

	return r
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
