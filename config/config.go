package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

// Config returns the value of an environment variable, loading .env on first use.
func Config(key string) string {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, using system environment")
		}
	})
	return os.Getenv(key)
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
	BodyLimit   int
}

type DatabaseConfig struct {
	Host     string
	Port     uint64
	User     string
	Password string
	Name     string
	SSLMode  string
	Seed     bool
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

type PaymentConfig struct {
	Timeout       time.Duration
	SweepInterval time.Duration
	// Methods lists the payment methods a processor is registered for.
	Methods []string
}

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	APIURL     string
	ReturnURL  string
	Timeout    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Payment  PaymentConfig
	VNPay    VNPayConfig
	Redis    RedisConfig
	Log      LogConfig
}

// Load reads the whole application configuration from the environment.
func Load() (*AppConfig, error) {
	var errs []error
	intOr := func(key string, def int) int {
		raw := strings.TrimSpace(Config(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return v
	}

	dbPort := intOr("DB_PORT", 5432)
	timeoutMinutes := intOr("PAYMENT_TIMEOUT_MINUTES", 15)
	sweepSeconds := intOr("PAYMENT_SWEEP_INTERVAL_SECONDS", 300)
	if timeoutMinutes <= 0 {
		errs = append(errs, errors.New("PAYMENT_TIMEOUT_MINUTES must be positive"))
	}
	if sweepSeconds <= 0 {
		errs = append(errs, errors.New("PAYMENT_SWEEP_INTERVAL_SECONDS must be positive"))
	}
	paymentTimeout := time.Duration(timeoutMinutes) * time.Minute

	appURL := strings.TrimRight(stringOr("APP_URL", "http://localhost:8002"), "/")

	cfg := &AppConfig{
		Server: ServerConfig{
			Port:        stringOr("PORT", "8002"),
			CORSOrigins: stringOr("CORS_ORIGINS", "http://localhost:5173"),
			BodyLimit:   intOr("BODY_LIMIT_MB", 4) * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Host:     stringOr("DB_HOST", "localhost"),
			Port:     uint64(dbPort),
			User:     Config("DB_USER"),
			Password: Config("DB_PASSWORD"),
			Name:     Config("DB_NAME"),
			SSLMode:  stringOr("DB_SSLMODE", "disable"),
			Seed:     Config("DB_SEED") == "true",
		},
		JWT: JWTConfig{
			Secret:    Config("JWT_SECRET"),
			AccessTTL: time.Duration(intOr("JWT_ACCESS_TTL_MINUTES", 60)) * time.Minute,
		},
		Payment: PaymentConfig{
			Timeout:       paymentTimeout,
			SweepInterval: time.Duration(sweepSeconds) * time.Second,
			Methods:       splitList(stringOr("PAYMENT_METHODS", "CASH,VNPAY")),
		},
		VNPay: VNPayConfig{
			TmnCode:    Config("VNP_TMNCODE"),
			HashSecret: Config("VNP_HASHSECRET"),
			PayURL:     stringOr("VNP_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			APIURL:     stringOr("VNP_API_URL", "https://sandbox.vnpayment.vn/merchant_webapi/api/transaction"),
			ReturnURL:  stringOr("VNP_RETURN_URL", appURL+"/api/v1/payment/vnpay/return"),
			Timeout:    paymentTimeout,
		},
		Redis: RedisConfig{
			Addr:     Config("REDIS_ADDR"),
			Password: Config("REDIS_PASSWORD"),
			DB:       intOr("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level:      stringOr("LOG_LEVEL", "info"),
			Format:     stringOr("LOG_FORMAT", "text"),
			Output:     stringOr("LOG_OUTPUT", "stdout"),
			FilePath:   stringOr("LOG_FILE", "logs/app.log"),
			MaxSizeMB:  intOr("LOG_MAX_SIZE_MB", 100),
			MaxBackups: intOr("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: intOr("LOG_MAX_AGE_DAYS", 30),
		},
	}

	if cfg.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func stringOr(key, def string) string {
	if v := strings.TrimSpace(Config(key)); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
