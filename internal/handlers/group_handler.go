// cuaderno-crm/internal/handlers/group_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"cuaderno-crm/config"
	"cuaderno-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GroupInput - данные формы создания/редактирования учебной группы.
type GroupInput struct {
	Subject        string `json:"subject" binding:"required"`
	Grade          string `json:"grade" binding:"required"`
	Letter         string `json:"letter" binding:"required"`
	Color          string `json:"color"`
	GradingFormula string `json:"grading_formula"`
}

// GroupResponse - группа вместе с её внешним ключом для расписания.
type GroupResponse struct {
	models.Group
	Key          string `json:"key"`
	StudentCount int64  `json:"student_count"`
}

// ListGroupsHandler возвращает все группы с ключами и числом учеников.
func ListGroupsHandler(c *gin.Context) {
	var groups []models.Group
	if err := config.DB.Order("subject, grade, letter").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список групп"})
		return
	}

	response := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		var count int64
		config.DB.Model(&models.Student{}).Where("group_id = ?", g.ID).Count(&count)
		response = append(response, GroupResponse{Group: g, Key: g.Key(), StudentCount: count})
	}
	c.JSON(http.StatusOK, gin.H{"data": response})
}

// CreateGroupHandler создаёт учебную группу.
func CreateGroupHandler(c *gin.Context) {
	var input GroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	group := models.Group{
		Subject:        input.Subject,
		Grade:          input.Grade,
		Letter:         input.Letter,
		Color:          input.Color,
		GradingFormula: input.GradingFormula,
	}
	if err := config.DB.Create(&group).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Группа с таким предметом, курсом и литерой уже существует"})
		return
	}
	c.JSON(http.StatusCreated, GroupResponse{Group: group, Key: group.Key()})
}

// UpdateGroupHandler изменяет группу. Смена предмета/курса/литеры меняет
// внешний ключ, поэтому уроки расписания переключаются на новый ключ.
func UpdateGroupHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID группы"})
		return
	}

	var input GroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	var group models.Group
	if err := config.DB.First(&group, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Группа не найдена"})
		return
	}

	oldKey := group.Key()
	group.Subject = input.Subject
	group.Grade = input.Grade
	group.Letter = input.Letter
	group.Color = input.Color
	group.GradingFormula = input.GradingFormula

	if err := config.DB.Save(&group).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Группа с таким предметом, курсом и литерой уже существует"})
		return
	}

	if newKey := group.Key(); newKey != oldKey {
		if err := ScheduleStore.RekeyGroup(oldKey, newKey); err != nil {
			slog.Error("Не удалось обновить ключ группы в расписании", "old", oldKey, "new", newKey, "error", err)
		}
	}
	c.JSON(http.StatusOK, GroupResponse{Group: group, Key: group.Key()})
}

// DeleteGroupHandler удаляет группу вместе с учениками, работами и оценками.
// Уроки расписания, ссылавшиеся на группу, удаляются каскадно: справочник
// групп - внешний для ядра расписания, и целостность ссылок
// восстанавливается именно в момент удаления.
func DeleteGroupHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID группы"})
		return
	}

	var group models.Group
	if err := config.DB.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Группа не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка базы данных"})
		return
	}

	key := group.Key()
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var studentIDs []uint
		tx.Model(&models.Student{}).Where("group_id = ?", group.ID).Pluck("id", &studentIDs)

		var activityIDs []uint
		tx.Model(&models.Activity{}).Where("group_id = ?", group.ID).Pluck("id", &activityIDs)

		if len(activityIDs) > 0 {
			if err := tx.Where("activity_id IN ?", activityIDs).Delete(&models.Mark{}).Error; err != nil {
				return err
			}
		}
		if len(studentIDs) > 0 {
			if err := tx.Where("student_id IN ?", studentIDs).Delete(&models.AttendanceRecord{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.Student{}).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить группу: " + err.Error()})
		return
	}

	removed, err := ScheduleStore.RemoveByGroupKey(key)
	if err != nil {
		slog.Error("Группа удалена, но расписание не очищено", "key", key, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Группа удалена",
		"removed_lessons": removed,
	})
}
