// cuaderno-crm/internal/handlers/student_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"cuaderno-crm/config"
	"cuaderno-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StudentInput - данные формы создания/редактирования ученика.
type StudentInput struct {
	GroupID   uint   `json:"group_id" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Comment   string `json:"comment"`
}

// ListStudentsHandler возвращает учеников, при необходимости - только одной группы.
func ListStudentsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Student{}).Order("last_name, first_name")

	if groupIDStr := c.Query("group_id"); groupIDStr != "" {
		groupID, err := strconv.Atoi(groupIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID группы"})
			return
		}
		query = query.Where("group_id = ?", groupID)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(last_name) LIKE ? OR LOWER(first_name) LIKE ?", pattern, pattern)
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список учеников"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": students})
}

// CreateStudentHandler добавляет ученика в группу.
func CreateStudentHandler(c *gin.Context) {
	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	var group models.Group
	if err := config.DB.First(&group, input.GroupID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Указанная группа не существует"})
		return
	}

	student := models.Student{
		GroupID:   input.GroupID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Comment:   input.Comment,
	}
	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить ученика"})
		return
	}
	c.JSON(http.StatusCreated, student)
}

// UpdateStudentHandler изменяет данные ученика (включая перевод в другую группу).
func UpdateStudentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID ученика"})
		return
	}

	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
		return
	}
	var group models.Group
	if err := config.DB.First(&group, input.GroupID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Указанная группа не существует"})
		return
	}

	student.GroupID = input.GroupID
	student.FirstName = input.FirstName
	student.LastName = input.LastName
	student.Comment = input.Comment
	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить ученика"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudentHandler удаляет ученика вместе с его оценками и посещаемостью.
func DeleteStudentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID ученика"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.Mark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить ученика"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ученик удалён"})
}
