package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	GinMode                         string
	Port                            int
	DbAddress                       string
	JwtSecret                       string
	UserTokenExpiry                 int
	UserTokenAbsoluteExpiry         int
	RedisURL                        string
	IsRedisEnabled                  bool
	FrontendUrls                    []string
	DefaultTimezone                 string
	OnlineWindowInSec               int
	FeedDefaultLimit                int
	RateLimiterDurationInSec        int
	RateLimiterRequestLimit         int
	RateLimiterCleanupIntervalInSec int
}

func getEnvStrOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)

	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvStrOrError(key string) (string, error) {
	value := os.Getenv(key)

	if value == "" {
		return "", fmt.Errorf("environment variable %s is required but not set", key)
	}

	return value, nil
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	strValue := os.Getenv(key)

	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func LoadConfigFromEnv() (*Config, error) {
	jwtSecret, err := getEnvStrOrError("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	timezone := getEnvStrOrDefault("DEFAULT_TIMEZONE", "UTC")
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", timezone, err)
	}

	redisURL := getEnvStrOrDefault("REDIS_URL", "")

	return &Config{
		GinMode:                         getEnvStrOrDefault("GIN_MODE", "debug"),
		Port:                            getEnvIntOrDefault("PORT", 3003),
		DbAddress:                       getEnvStrOrDefault("DB_ADDRESS", "data/climaxlog.sqlite"),
		JwtSecret:                       jwtSecret,
		UserTokenExpiry:                 getEnvIntOrDefault("USER_TOKEN_EXPIRY", 3600),
		UserTokenAbsoluteExpiry:         getEnvIntOrDefault("USER_TOKEN_ABSOLUTE_EXPIRY", 2592000),
		RedisURL:                        redisURL,
		IsRedisEnabled:                  redisURL != "",
		FrontendUrls:                    getEnvListOrDefault("FRONTEND_URLS", []string{"http://localhost:5173", "http://localhost:4173"}),
		DefaultTimezone:                 timezone,
		OnlineWindowInSec:               getEnvIntOrDefault("ONLINE_WINDOW", 120),
		FeedDefaultLimit:                getEnvIntOrDefault("FEED_DEFAULT_LIMIT", 50),
		RateLimiterDurationInSec:        getEnvIntOrDefault("RATE_LIMITER_DURATION", 60),
		RateLimiterRequestLimit:         getEnvIntOrDefault("RATE_LIMITER_REQUEST_LIMIT", 300),
		RateLimiterCleanupIntervalInSec: getEnvIntOrDefault("RATE_LIMITER_CLEANUP_INTERVAL", 300),
	}, nil
}
