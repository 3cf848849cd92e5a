// cuaderno-crm/internal/handlers/attendance_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"cuaderno-crm/config"
	"cuaderno-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AttendanceItemInput - отметка одного ученика в пакетном сохранении.
type AttendanceItemInput struct {
	StudentID uint   `json:"student_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
	Comment   string `json:"comment"`
}

// AttendanceInput - журнал посещаемости группы на дату.
type AttendanceInput struct {
	GroupID uint                  `json:"group_id" binding:"required"`
	Date    string                `json:"date" binding:"required"`
	Items   []AttendanceItemInput `json:"items" binding:"required"`
}

func validAttendanceStatus(s string) bool {
	switch s {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate, models.AttendanceExcused:
		return true
	}
	return false
}

// GetAttendanceHandler возвращает отметки группы на дату.
func GetAttendanceHandler(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Query("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан или некорректен group_id"})
		return
	}
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата: " + date})
		return
	}

	var records []models.AttendanceRecord
	err = config.DB.
		Joins("JOIN students ON students.id = attendance_records.student_id").
		Where("students.group_id = ? AND attendance_records.date = ?", groupID, date).
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить посещаемость"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

// SaveAttendanceHandler пакетно сохраняет посещаемость группы на дату.
// Весь журнал пишется в одной транзакции.
func SaveAttendanceHandler(c *gin.Context) {
	var input AttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата: " + input.Date})
		return
	}
	for _, item := range input.Items {
		if !validAttendanceStatus(item.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный статус посещаемости: " + item.Status})
			return
		}
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range input.Items {
			var existing models.AttendanceRecord
			err := tx.Where("student_id = ? AND date = ?", item.StudentID, input.Date).
				First(&existing).Error
			switch {
			case err == nil:
				existing.Status = item.Status
				existing.Comment = item.Comment
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			default:
				record := models.AttendanceRecord{
					StudentID: item.StudentID,
					Date:      input.Date,
					Status:    item.Status,
					Comment:   item.Comment,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить посещаемость"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Посещаемость сохранена"})
}

// GetStudentAttendanceHandler возвращает историю отметок ученика за период.
func GetStudentAttendanceHandler(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID ученика"})
		return
	}

	query := config.DB.Where("student_id = ?", studentID).Order("date")
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var records []models.AttendanceRecord
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить посещаемость"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}
