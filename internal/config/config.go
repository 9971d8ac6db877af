package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	AppVersion  string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StorageDir     string
	TranslationDir string

	LogLevel string
	LogJSON  bool

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration

	TrustedProxies []string
}

// Load reads the configuration from the environment, after loading .env if
// one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	return &Config{
		AppPort:     getEnv("APP_PORT", "8080"),
		AppVersion:  getEnv("APP_VERSION", "dev"),
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,
		JWTTTL:      time.Duration(getPositiveInt("JWT_TTL_HOURS", 24)) * time.Hour,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		StorageDir:     getEnv("STORAGE_DIR", "storage"),
		TranslationDir: getEnv("TRANSLATION_DIR", "pkg/translator/translation"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		APIRateLimit:   getPositiveInt("API_RATE_LIMIT", 60),
		APIRateWindow:  time.Duration(getPositiveInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		AuthRateLimit:  getPositiveInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: time.Duration(getPositiveInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,

		TrustedProxies: parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt returns fallback for unset, malformed or negative values.
func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// getPositiveInt is getInt that also rejects zero.
func getPositiveInt(key string, fallback int) int {
	if n := getInt(key, fallback); n > 0 {
		return n
	}
	return fallback
}

func parseTrustedProxies(raw string) []string {
	if raw == "" {
		return nil
	}
	var proxies []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}
