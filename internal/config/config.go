package config

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration

	DB        DBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Identity  IdentityConfig
	Auth      AuthConfig
	Kafka     KafkaConfig
	Otel      OtelConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type IdentityConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

type AuthConfig struct {
	JWTKey string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type OtelConfig struct {
	Endpoint    string
	ServiceName string
	Environment string
	SampleRatio float64
}

// Load reads .env (if present) and builds the Config from the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables from system")
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Port:            String("PORT", "8080"),
		GinMode:         String("GIN_MODE", "release"),
		LogLevel:        parseLevel(String("LOG_LEVEL", "info")),
		ShutdownTimeout: Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		DB: DBConfig{
			// 本地开发默认连接
			DSN:          String("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=emojichirp port=5432 sslmode=disable TimeZone=UTC"),
			MaxOpenConns: Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns: Int("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     String("REDIS_ADDR", "localhost:6379"),
			Password: String("REDIS_PASSWORD", ""),
			DB:       Int("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Max:    Int("RATE_LIMIT_MAX", 3),
			Window: Duration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Identity: IdentityConfig{
			BaseURL:   String("IDENTITY_API_URL", "https://api.clerk.com"),
			SecretKey: RequireString("IDENTITY_SECRET_KEY"),
			Timeout:   Duration("IDENTITY_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			JWTKey: RequireString("AUTH_JWT_KEY"),
		},
		Kafka: KafkaConfig{
			Brokers: List("KAFKA_BROKERS"),
			Topic:   String("KAFKA_TOPIC", "posts"),
		},
		Otel: OtelConfig{
			Endpoint:    String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName: String("OTEL_SERVICE_NAME", "emojichirp"),
			Environment: String("ENV", "local"),
			SampleRatio: ratio(String("OTEL_TRACES_SAMPLER_ARG", "")),
		},
	}
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ratio parses the trace sampling ratio, falling back to 1 outside [0, 1].
func ratio(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return 1.0
	}
	return f
}
