package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	DBSSLMode      string
	DBMaxOpenConns int
	AppPort        string
	AppEnv         string
	SecretKey      string
	CORSOrigin     string

	// CategoryTable selects which category schema the navigator reads:
	// "categories" (serial ids) or "listing_categories" (UUID ids).
	CategoryTable      string
	NavSessionCapacity int
	ImportMaxBytes     int64
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:             os.Getenv("DB_HOST"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 25),
		AppPort:            getEnv("APP_PORT", "8080"),
		AppEnv:             os.Getenv("APP_ENV"),
		SecretKey:          os.Getenv("SECRET_KEY"),
		CORSOrigin:         getEnv("CORS_ORIGIN", "http://localhost:3000"),
		CategoryTable:      getEnv("CATEGORY_TABLE", "categories"),
		NavSessionCapacity: getEnvInt("NAV_SESSION_CAPACITY", 1024),
		ImportMaxBytes:     int64(getEnvInt("IMPORT_MAX_BYTES", 5<<20)),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, value, fallback)
		return fallback
	}
	return n
}
