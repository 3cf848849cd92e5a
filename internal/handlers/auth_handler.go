// cuaderno-crm/internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cuaderno-crm/config"
	"cuaderno-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput - данные формы входа. Журнал персональный, поэтому защита
// сводится к простому паролю учителя, а не к полноценной многопользовательской
// системе прав.
type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler проверяет пароль и выставляет JWT-cookie.
func LoginHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса"})
		return
	}

	var user models.User
	if err := config.DB.Where("login = ?", input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный логин или пароль"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный логин или пароль"})
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"login":   user.Login,
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(config.JwtKey)
	if err != nil {
		slog.Error("Не удалось подписать токен", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать сессию"})
		return
	}

	c.SetCookie("auth_token", tokenStr, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Вход выполнен", "full_name": user.FullName})
}

// LogoutHandler снимает cookie сессии и чистит кэш пользователя.
func LogoutHandler(c *gin.Context) {
	if userID := c.GetUint("user_id"); userID != 0 && config.RDB != nil {
		cacheKey := fmt.Sprintf("user:%d:data", userID)
		if err := config.RDB.Del(config.Ctx, cacheKey).Err(); err != nil {
			slog.Warn("Не удалось очистить кэш пользователя", "user_id", userID, "error", err)
		}
	}
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Выход выполнен"})
}

// SeedTeacher создаёт учётную запись учителя при первом запуске, если таблица
// пользователей пуста. Логин и пароль берутся из окружения.
func SeedTeacher() error {
	var count int64
	if err := config.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	login := os.Getenv("TEACHER_LOGIN")
	password := os.Getenv("TEACHER_PASSWORD")
	if login == "" || password == "" {
		return errors.New("таблица пользователей пуста, а TEACHER_LOGIN/TEACHER_PASSWORD не заданы")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		Login:    login,
		Password: string(hashed),
		FullName: os.Getenv("TEACHER_NAME"),
	}
	if err := config.DB.Create(&user).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	slog.Info("Создана учётная запись учителя", "login", login)
	return nil
}
