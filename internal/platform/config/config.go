package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. Everything comes from
// the environment so main stays lean.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisAddr   string

	JWTSigningKey string
	JWTTTL        time.Duration

	RatingServiceURL      string
	RatingCacheTTL        time.Duration
	RatingRefreshInterval time.Duration
	RatingRefreshEnabled  bool
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	return Config{
		Addr:                  getenv("AUTHPROFILE_ADDR", ":8080"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             getenv("REDIS_ADDR", "localhost:6379"),
		JWTSigningKey:         getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTTTL:                getdur("JWT_TTL", time.Hour),
		RatingServiceURL:      getenv("RATING_SERVICE_URL", "http://localhost:8081"),
		RatingCacheTTL:        getdur("RATING_CACHE_TTL", 10*time.Minute),
		RatingRefreshInterval: getdur("RATING_REFRESH_INTERVAL", time.Hour),
		RatingRefreshEnabled:  getbool("RATING_REFRESH_ENABLED", true),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getdur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
