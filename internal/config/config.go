package config

import (
	"os"
)

type Config struct {
	DatabaseURL   string
	Port          string
	SessionSecret string
	MediaDir      string // 上传图片的落盘根目录
}

// Load 从环境变量读取配置，缺省值用于本地开发
func Load() *Config {
	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=yatube port=5432 sslmode=disable"),
		Port:          getEnv("PORT", "8080"),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		MediaDir:      getEnv("MEDIA_DIR", "./media"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
