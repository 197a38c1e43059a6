package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the service needs from the environment.
// Loaded once in main and passed explicitly to constructors.
type Config struct {
	Port      string
	DBURL     string
	JWTSecret string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceID       string

	CheckoutSuccessURL string
	CheckoutCancelURL  string
	PortalReturnURL    string

	CORSOrigin string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	return Config{
		Port:      getEnv("PORT", "8080"),
		DBURL:     mustEnv("DB_URL"),
		JWTSecret: mustEnv("JWT_SECRET"),

		StripeSecretKey:     mustEnv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: mustEnv("STRIPE_WEBHOOK_SECRET"),
		StripePriceID:       mustEnv("STRIPE_PRICE_ID"),

		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/done"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/error"),
		PortalReturnURL:    getEnv("PORTAL_RETURN_URL", "http://localhost:3333"),

		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
