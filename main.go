// cuaderno-crm/main.go
package main

import (
	"log/slog"
	"os"

	"cuaderno-crm/config"
	"cuaderno-crm/internal/handlers"
	"cuaderno-crm/internal/routes"
	"cuaderno-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env опционален: в контейнере переменные приходят из окружения.
	if err := godotenv.Load(); err != nil {
		slog.Info("Файл .env не найден, используются переменные окружения")
	}

	config.InitJWT()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Student{},
		&models.Activity{},
		&models.Mark{},
		&models.AttendanceRecord{},
		&models.ScheduleRecord{},
		&models.ViewSettings{},
	); err != nil {
		slog.Error("Ошибка миграции схемы", "error", err)
		os.Exit(1)
	}

	if err := handlers.SeedTeacher(); err != nil {
		slog.Error("Не удалось создать учётную запись учителя", "error", err)
		os.Exit(1)
	}
	if err := handlers.InitScheduleStore(); err != nil {
		slog.Error("Не удалось загрузить расписание", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	routes.RegisterAuthRoutes(r)
	routes.RegisterAPIRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Сервер запущен", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Сервер остановлен с ошибкой", "error", err)
		os.Exit(1)
	}
}
