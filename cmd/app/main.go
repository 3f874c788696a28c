package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"checkout/cmd"
	httpin "checkout/internal/adapters/in/http"
)

func main() {
	configs := getConfigs()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:            goDotEnvVariable("HTTP_PORT"),
		DBHost:              goDotEnvVariable("DB_HOST"),
		DBPort:              goDotEnvVariable("DB_PORT"),
		DBUser:              goDotEnvVariable("DB_USER"),
		DBPassword:          goDotEnvVariable("DB_PASSWORD"),
		DBName:              goDotEnvVariable("DB_NAME"),
		DBSslMode:           goDotEnvVariable("DB_SSLMODE"),
		RedisAddr:           goDotEnvVariable("REDIS_ADDR"),
		HoldTTL:             durationVariable("HOLD_TTL", 15*time.Minute),
		PayPalBaseURL:       goDotEnvVariable("PAYPAL_BASE_URL"),
		PayPalClientID:      goDotEnvVariable("PAYPAL_CLIENT_ID"),
		PayPalSecret:        goDotEnvVariable("PAYPAL_SECRET"),
		StripeBaseURL:       goDotEnvVariable("STRIPE_BASE_URL"),
		StripeSecretKey:     goDotEnvVariable("STRIPE_SECRET_KEY"),
		CarrierBaseURL:      goDotEnvVariable("CARRIER_BASE_URL"),
		CarrierAPIKey:       goDotEnvVariable("CARRIER_API_KEY"),
		SMTPHost:            goDotEnvVariable("SMTP_HOST"),
		SMTPPort:            intVariable("SMTP_PORT", 587),
		SMTPUsername:        goDotEnvVariable("SMTP_USERNAME"),
		SMTPPassword:        goDotEnvVariable("SMTP_PASSWORD"),
		SMTPFrom:            goDotEnvVariable("SMTP_FROM"),
		StoreCurrency:       goDotEnvVariable("STORE_CURRENCY"),
		StaffEmails:         listVariable("STAFF_EMAILS"),
		OutboxMaxAttempts:   intVariable("OUTBOX_MAX_ATTEMPTS", 5),
		OutboxBackoffBase:   durationVariable("OUTBOX_BACKOFF_BASE", time.Minute),
		WarehouseName:       goDotEnvVariable("WAREHOUSE_NAME"),
		WarehouseStreet1:    goDotEnvVariable("WAREHOUSE_STREET1"),
		WarehouseCity:       goDotEnvVariable("WAREHOUSE_CITY"),
		WarehouseState:      goDotEnvVariable("WAREHOUSE_STATE"),
		WarehousePostalCode: goDotEnvVariable("WAREHOUSE_POSTAL_CODE"),
		WarehouseCountry:    goDotEnvVariable("WAREHOUSE_COUNTRY"),
		WarehousePhone:      goDotEnvVariable("WAREHOUSE_PHONE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func durationVariable(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return d
}

func intVariable(key string, fallback int) int {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return n
}

func listVariable(key string) []string {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateCheckoutCommandHandler(),
		app.CreateUpdateOrderStatusCommandHandler(),
		app.CreateGetOrderTrackingQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
