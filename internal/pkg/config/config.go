package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BotToken is the Telegram bot credential. It derives the initData
	// HMAC key and must never be logged.
	BotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	AdminChatID int64  `env:"TELEGRAM_ADMIN_ID, default=0"`

	JWT    JWTConfig
	Cookie CookieConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type JWTConfig struct {
	Secret         string `env:"JWT_SECRET"`
	AccessTTLMin   int    `env:"JWT_ACCESS_TTL_MIN,   default=15"`
	RefreshTTLDays int    `env:"JWT_REFRESH_TTL_DAYS, default=30"`
}

type CookieConfig struct {
	Domain string `env:"COOKIE_DOMAIN"`
	Secure bool   `env:"COOKIE_SECURE, default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=miniapp"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
