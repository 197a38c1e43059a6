package main

import (
	"log"
	"time"

	"github.com/MandaAlmeida/listener-pay/config"
	"github.com/MandaAlmeida/listener-pay/database"
	paymentsapi "github.com/MandaAlmeida/listener-pay/internal/api/payments"
	"github.com/MandaAlmeida/listener-pay/internal/api/stripewebhook"
	usersapi "github.com/MandaAlmeida/listener-pay/internal/api/users"
	routes "github.com/MandaAlmeida/listener-pay/internal/app/http"
	"github.com/MandaAlmeida/listener-pay/internal/domain/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75/client"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	cfg := config.Load()

	db, err := database.Connect(cfg.DBURL)
	if err != nil {
		log.Fatal("❌ ", err)
	}
	log.Println("✅ Connected and migrated successfully")

	store := users.NewGormStore(db)

	// One Stripe client for the whole process, built from config.
	sc := client.New(cfg.StripeSecretKey, nil)

	paymentsSvc := paymentsapi.NewService(sc, store, cfg)
	usersSvc := usersapi.NewService(store, paymentsSvc)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r,
		usersapi.NewHandler(usersSvc, cfg.JWTSecret),
		paymentsapi.NewHandler(paymentsSvc),
		stripewebhook.NewHandler(store, cfg.StripeWebhookSecret),
	)

	r.Run(":" + cfg.Port)
}
