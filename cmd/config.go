package cmd

import (
	"fmt"
	"time"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr string

	HoldTTL time.Duration

	PayPalBaseURL  string
	PayPalClientID string
	PayPalSecret   string

	StripeBaseURL   string
	StripeSecretKey string

	CarrierBaseURL string
	CarrierAPIKey  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	StoreCurrency string
	StaffEmails   []string

	OutboxMaxAttempts int
	OutboxBackoffBase time.Duration

	WarehouseName       string
	WarehouseStreet1    string
	WarehouseCity       string
	WarehouseState      string
	WarehousePostalCode string
	WarehouseCountry    string
	WarehousePhone      string
}

// DSN builds the postgres connection string from the database settings.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
