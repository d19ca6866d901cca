package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port   string
	AppEnv string

	DB    DBConfig
	Redis RedisConfig
	Kafka KafkaConfig

	JWTSecret          string
	RBACPolicyPath     string
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string

	Leave LeaveConfig
	SMTP  SMTPConfig

	OTLPEndpoint string
	OTLPInsecure bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
	// AutoMigrate creates the leave tables on start; production runs
	// migrations out of band.
	AutoMigrate bool
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Broker        string
	ConsumerGroup string
}

// LeaveConfig carries the leave policy knobs.
type LeaveConfig struct {
	CEOThresholdDays int
	DefaultAllotment Allotment
}

// Allotment is the yearly entitlement per balance bucket.
type Allotment struct {
	Annual        decimal.Decimal
	Sick          decimal.Decimal
	Compassionate decimal.Decimal
	Paternity     decimal.Decimal
	Maternity     decimal.Decimal
	Study         decimal.Decimal
	Personal      decimal.Decimal
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != "" && len(s.To) > 0
}

func Load() (Config, error) {
	cfg := Config{
		Port:   readString("PORT", "3000"),
		AppEnv: readString("APP_ENV", "development"),
		DB: DBConfig{
			Host:        os.Getenv("DB_HOST"),
			User:        os.Getenv("DB_USER"),
			Password:    os.Getenv("DB_PASSWORD"),
			Name:        os.Getenv("DB_NAME"),
			Port:        readString("DB_PORT", "5432"),
			SSLMode:     readString("DB_SSLMODE", "disable"),
			AutoMigrate: os.Getenv("DB_AUTO_MIGRATE") == "true",
		},
		Redis: RedisConfig{Addr: os.Getenv("REDIS_ADDR")},
		Kafka: KafkaConfig{
			Broker:        os.Getenv("KAFKA_BROKER"),
			ConsumerGroup: readString("KAFKA_CONSUMER_GROUP", "markpedia-leave"),
		},
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RBACPolicyPath:     os.Getenv("RBAC_POLICY_PATH"),
		RateLimitRPS:       readFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     readInt("RATE_LIMIT_BURST", 20),
		CORSAllowedOrigins: readList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Leave: LeaveConfig{
			CEOThresholdDays: readInt("LEAVE_CEO_THRESHOLD_DAYS", 10),
			DefaultAllotment: Allotment{
				Annual:        readDecimal("LEAVE_DEFAULT_ANNUAL", 20),
				Sick:          readDecimal("LEAVE_DEFAULT_SICK", 10),
				Compassionate: readDecimal("LEAVE_DEFAULT_COMPASSIONATE", 5),
				Paternity:     readDecimal("LEAVE_DEFAULT_PATERNITY", 10),
				Maternity:     readDecimal("LEAVE_DEFAULT_MATERNITY", 90),
				Study:         readDecimal("LEAVE_DEFAULT_STUDY", 5),
				Personal:      readDecimal("LEAVE_DEFAULT_PERSONAL", 3),
			},
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     readInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("NOTIFY_EMAIL_FROM"),
			To:       readList("NOTIFY_EMAIL_TO", nil),
		},
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
		ReadTimeout:  readDuration("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout: readDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  readDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
	}

	if cfg.DB.Host == "" || cfg.DB.Name == "" {
		return Config{}, fmt.Errorf("DB_HOST and DB_NAME are required")
	}
	if cfg.Leave.CEOThresholdDays < 0 {
		return Config{}, fmt.Errorf("LEAVE_CEO_THRESHOLD_DAYS must not be negative")
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func readString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func readDecimal(key string, fallback int64) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		return decimal.NewFromInt(fallback)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NewFromInt(fallback)
	}
	return value
}

func readDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
