// cuaderno-crm/config/jwt.go
package config

import (
	"log/slog"
	"os"
)

var JwtKey []byte

// InitJWT загружает секретный ключ для подписи токенов из окружения.
func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("Критическая ошибка: переменная окружения JWT_SECRET не установлена.")
		os.Exit(1)
	}
	JwtKey = []byte(secret)
}
