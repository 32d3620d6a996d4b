package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all process configuration. It is built once at startup and
// passed to the components that need it; business logic never reads the
// environment directly.
type Config struct {
	Port        string
	Environment string
	Version     string

	// AppURL is the externally reachable base URL used to build the OAuth
	// redirect URI.
	AppURL string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ShopifyAPIKey     string
	ShopifyAPISecret  string
	ShopifyAPIVersion string
	Scopes            []string

	AIBaseURL string

	CORSOrigins []string
}

// RedirectURI is the OAuth callback URI registered with the platform.
func (c *Config) RedirectURI() string {
	return c.AppURL + "/auth/callback"
}

// Production reports whether the process runs in production mode.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Load builds the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Version:     getEnv("APP_VERSION", "1.0.0"),

		AppURL: getEnv("APP_URL", "http://localhost:8080"),

		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "shopsight"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		ShopifyAPIKey:     getEnv("SHOPIFY_API_KEY", ""),
		ShopifyAPISecret:  getEnv("SHOPIFY_API_SECRET", ""),
		ShopifyAPIVersion: getEnv("SHOPIFY_API_VERSION", "2024-01"),
		Scopes:            splitList(getEnv("SHOPIFY_SCOPES", "read_orders,read_products,read_inventory,read_customers")),

		AIBaseURL: getEnv("AI_SERVICE_URL", "http://localhost:8000"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = db

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces that credentials are present in production. Development
// may run with the localhost defaults, but missing platform credentials must
// never be papered over with silent defaults in production.
func (c *Config) Validate() error {
	if !c.Production() {
		return nil
	}

	missing := []string{}
	if c.ShopifyAPIKey == "" {
		missing = append(missing, "SHOPIFY_API_KEY")
	}
	if c.ShopifyAPISecret == "" {
		missing = append(missing, "SHOPIFY_API_SECRET")
	}
	if c.AppURL == "" {
		missing = append(missing, "APP_URL")
	}
	if c.AIBaseURL == "" {
		missing = append(missing, "AI_SERVICE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
