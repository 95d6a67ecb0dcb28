package util

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	defaultServerAddr      = "localhost:8080"
	defaultWriteTimeout    = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultGracefulTimeout = 5 * time.Second

	defaultAccessTTL      = 15 * time.Minute
	defaultRefreshTTLDays = 14
	defaultBcryptCost     = 10

	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	RawTokenLength = 64
	JWTLeeWay      = 5 * time.Second
)

type ServerConfig struct {
	ServerAddr      string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = defaultServerAddr
	}

	return &ServerConfig{
		ServerAddr:      addr,
		WriteTimeout:    parseDurationOrDefault("WRITE_TIMEOUT", defaultWriteTimeout),
		ReadTimeout:     parseDurationOrDefault("READ_TIMEOUT", defaultReadTimeout),
		IdleTimeout:     parseDurationOrDefault("IDLE_TIMEOUT", defaultIdleTimeout),
		GracefulTimeout: parseDurationOrDefault("GRACEFUL_TIMEOUT", defaultGracefulTimeout),
	}
}

type TokenConfig struct {
	JwtSecretKey []byte
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// NewTokenConfig exits the process when JWT_SECRET is missing.
func NewTokenConfig() *TokenConfig {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	days := parseIntOrDefault("REFRESH_TOKEN_TTL_DAYS", defaultRefreshTTLDays)
	return &TokenConfig{
		JwtSecretKey: []byte(secret),
		AccessTTL:    parseDurationOrDefault("ACCESS_TOKEN_TTL", defaultAccessTTL),
		RefreshTTL:   time.Duration(days) * 24 * time.Hour,
	}
}

type SecurityConfig struct {
	BcryptCost   int
	CookieSecure bool
}

func NewSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		BcryptCost:   parseIntOrDefault("BCRYPT_COST", defaultBcryptCost),
		CookieSecure: parseBoolOrDefault("COOKIE_SECURE", false),
	}
}

func GetStorageDriver() string {
	switch d := os.Getenv("STORAGE_DRIVER"); d {
	case "", StorageDriverPostgres:
		return StorageDriverPostgres
	case StorageDriverMemory:
		return StorageDriverMemory
	default:
		log.Printf("Unknown STORAGE_DRIVER: %s, using %s", d, StorageDriverPostgres)
		return StorageDriverPostgres
	}
}

func GetWebhookURL() string {
	return os.Getenv("WEBHOOK_URL")
}

func GetRabbitMQURL() string {
	return os.Getenv("RABBITMQ_URL")
}

func parseDurationOrDefault(varName string, def time.Duration) time.Duration {
	if v := os.Getenv(varName); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("Invalid duration in %s: %s, using default %s", varName, v, def)
	}
	return def
}

func parseIntOrDefault(varName string, def int) int {
	if v := os.Getenv(varName); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Invalid %s: %s, using default %d", varName, v, def)
	}
	return def
}

func parseBoolOrDefault(varName string, def bool) bool {
	if v := os.Getenv(varName); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("Invalid %s: %s, using default %t", varName, v, def)
	}
	return def
}
