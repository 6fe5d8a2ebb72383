package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	OTP      OTPConfig
	SMTP     SMTPConfig
	Checkout CheckoutConfig
	Stripe   StripeConfig
	S3       S3Config
	Map      MapConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	LogLevel    string
	LogFormat   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration // total time spent retrying the first connection
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// OTPConfig controls the one-time code login flow.
type OTPConfig struct {
	ResendCooldown time.Duration
	CodeTTL        time.Duration
	FlowTTL        time.Duration
	DemoCode       string // accepted for phone identifiers, no SMS gateway exists
	DemoEmail      string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type CheckoutConfig struct {
	DraftTTL         time.Duration
	PaymentMode      string // demo or stripe
	DemoPaymentDelay time.Duration
	StoreID          string
	AppOrigin        string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type MapConfig struct {
	CenterLat        float64
	CenterLng        float64
	TileKey          string
	TrackingInterval time.Duration
}

const (
	PaymentModeDemo   = "demo"
	PaymentModeStripe = "stripe"
)

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "clozet"),
			Password: getEnv("DB_PASSWORD", "clozet"),
			DBName:   getEnv("DB_NAME", "clozet"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxIdleConns:    parseInt(getEnv("DB_MAX_IDLE_CONNS", "10"), 10),
			MaxOpenConns:    parseInt(getEnv("DB_MAX_OPEN_CONNS", "50"), 50),
			ConnMaxLifetime: parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"), 30*time.Minute),
			ConnectTimeout:  parseDuration(getEnv("DB_CONNECT_TIMEOUT", "30s"), 30*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		OTP: OTPConfig{
			ResendCooldown: parseDuration(getEnv("OTP_RESEND_COOLDOWN", "30s"), 30*time.Second),
			CodeTTL:        parseDuration(getEnv("OTP_CODE_TTL", "5m"), 5*time.Minute),
			FlowTTL:        parseDuration(getEnv("OTP_FLOW_TTL", "15m"), 15*time.Minute),
			DemoCode:       getEnv("OTP_DEMO_CODE", "123456"),
			DemoEmail:      strings.ToLower(getEnv("OTP_DEMO_EMAIL", "demo@clozet.com")),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "Clozet <no-reply@clozet.com>"),
		},
		Checkout: CheckoutConfig{
			DraftTTL:         parseDuration(getEnv("CHECKOUT_DRAFT_TTL", "30m"), 30*time.Minute),
			PaymentMode:      getEnv("PAYMENT_MODE", PaymentModeDemo),
			DemoPaymentDelay: parseDuration(getEnv("DEMO_PAYMENT_DELAY", "1200ms"), 1200*time.Millisecond),
			StoreID:          getEnv("CHECKOUT_STORE_ID", "clozet-vellore"),
			AppOrigin:        getEnv("APP_ORIGIN", "http://localhost:5173"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:      getEnv("STRIPE_CURRENCY", "inr"),
		},
		S3: S3Config{
			Region:          getEnv("S3_REGION", "ap-south-1"),
			Bucket:          getEnv("S3_BUCKET", "clozet-uploads"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("S3_BASE_URL", ""),
		},
		Map: MapConfig{
			CenterLat:        parseFloat(getEnv("MAP_CENTER_LAT", "12.9165"), 12.9165),
			CenterLng:        parseFloat(getEnv("MAP_CENTER_LNG", "79.1325"), 79.1325),
			TileKey:          getEnv("MAP_TILE_KEY", ""),
			TrackingInterval: parseDuration(getEnv("TRACKING_INTERVAL", "3s"), 3*time.Second),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects combinations the server cannot run with.
func (c *Config) Validate() error {
	switch c.Checkout.PaymentMode {
	case PaymentModeDemo:
	case PaymentModeStripe:
		if c.Stripe.SecretKey == "" {
			return fmt.Errorf("PAYMENT_MODE=stripe requires STRIPE_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown PAYMENT_MODE %q", c.Checkout.PaymentMode)
	}
	if len(c.OTP.DemoCode) != 6 {
		return fmt.Errorf("OTP_DEMO_CODE must be 6 characters")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("Invalid number %s, using default %v", s, fallback)
		return fallback
	}
	return f
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
