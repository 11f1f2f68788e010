package app

import (
	"time"

	"github.com/yungbote/bookshelf-backend/internal/platform/envutil"
)

type Config struct {
	HTTPAddr    string
	MetricsAddr string
	RedisAddr   string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:        envutil.String("HTTP_ADDR", ":8080"),
		MetricsAddr:     envutil.String("METRICS_ADDR", ":9090"),
		RedisAddr:       envutil.String("REDIS_ADDR", ""),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second,
	}
}
