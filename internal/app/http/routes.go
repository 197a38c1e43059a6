package routes

import (
	"github.com/MandaAlmeida/listener-pay/internal/api/payments"
	"github.com/MandaAlmeida/listener-pay/internal/api/stripewebhook"
	"github.com/MandaAlmeida/listener-pay/internal/api/users"
	"github.com/MandaAlmeida/listener-pay/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, userHandler *users.Handler, paymentsHandler *payments.Handler, webhookHandler *stripewebhook.Handler) {
	// Registered outside the sanitized group: signature verification needs the
	// raw, untouched body bytes.
	r.POST("/webhook", webhookHandler.HandleWebhook)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/checkout/:id", paymentsHandler.GenerateCheckout)
	r.GET("/portal/stripe/:id", paymentsHandler.CreatePortalSession)
	r.POST("/subscription/:id/cancel", paymentsHandler.CancelSubscription)
	r.GET("/user/fetch/:id", userHandler.FetchByID)

	public := r.Group("/")
	public.Use(middleware.SanitizeInput())

	public.POST("/customer", paymentsHandler.CreateCustomer)
	public.POST("/user/register", userHandler.Register)
	public.POST("/user/login", userHandler.Login)
}
