// Package config reads server settings from the environment, after loading
// an optional .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreLocal  = "local"
	StoreRemote = "remote"
	StoreMemory = "memory"

	AuthShared   = "shared"
	AuthAccounts = "accounts"
)

type Config struct {
	HTTPPort string
	BaseURL  string

	StoreDriver string
	DBDriver    string
	DBDSN       string

	MongoURI      string
	MongoDatabase string
	RedisURL      string
	RedisPassword string

	JWTSecret         string
	AdminPassword     string
	AuthMode          string
	AllowRegistration bool

	WhatsAppNumber string
	CountryCode    string
	Currency       string
	ShopName       string
	CartScope      string

	GeminiAPIKey string
	CORSOrigins  []string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := Config{
		HTTPPort:          get("HTTP_PORT", "8080"),
		BaseURL:           get("BASE_URL", "http://localhost:8080"),
		StoreDriver:       strings.ToLower(get("STORE_DRIVER", StoreLocal)),
		DBDriver:          strings.ToLower(get("DB_DRIVER", "sqlite")),
		DBDSN:             get("DB_DSN", "boutique.db"),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDatabase:     get("MONGO_DATABASE", "boutique"),
		RedisURL:          os.Getenv("REDIS_URL"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AuthMode:          strings.ToLower(get("AUTH_MODE", AuthShared)),
		AllowRegistration: os.Getenv("ALLOW_REGISTRATION") == "true",
		WhatsAppNumber:    os.Getenv("WHATSAPP_NUMBER"),
		CountryCode:       get("COUNTRY_CODE", "91"),
		Currency:          get("CURRENCY", "₹"),
		ShopName:          get("SHOP_NAME", "Royal Abaya"),
		CartScope:         get("CART_SCOPE", "session"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		CORSOrigins:       splitList(get("CORS_ORIGIN", "http://localhost:5173")),
	}

	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		log.Printf("Invalid HTTP_PORT %q, using 8080", cfg.HTTPPort)
		cfg.HTTPPort = "8080"
	}
	return cfg
}

func get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
