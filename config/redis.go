// cuaderno-crm/config/redis.go
package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// ConnectRedis поднимает клиент Redis для кэша сессий. Redis необязателен:
// без REDIS_ADDR (или при недоступном сервере) кэширование просто отключается.
func ConnectRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		slog.Warn("REDIS_ADDR не задан, кэш сессий отключён")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := client.Ping(Ctx).Err(); err != nil {
		slog.Error("Redis недоступен, кэш сессий отключён", "error", err)
		return
	}

	RDB = client
	slog.Info("Подключение к Redis установлено")
}
