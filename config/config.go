package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries everything read from the environment at boot. Tax rate
// and minimum order amount are configuration, not constants, so the
// restaurant can change them without a deploy of new code.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	AdminAPIKey string

	TaxRate        float64
	MinOrderAmount float64
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    databaseURL(),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminAPIKey:    os.Getenv("ADMIN_API_KEY"),
		TaxRate:        getEnvFloat("TAX_RATE", 0.09),
		MinOrderAmount: getEnvFloat("MIN_ORDER_AMOUNT", 15.00),
	}
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "afhaalrestaurant"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
