// cuaderno-crm/internal/handlers/grade_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"cuaderno-crm/config"
	"cuaderno-crm/models"

	"github.com/Knetic/govaluate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ActivityInput - данные формы оцениваемой работы.
type ActivityInput struct {
	GroupID  uint    `json:"group_id" binding:"required"`
	Title    string  `json:"title" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Date     string  `json:"date"`
	Weight   float64 `json:"weight"`
	MaxScore float64 `json:"max_score"`
}

// MarkInput - одна оценка в пакетном сохранении.
type MarkInput struct {
	StudentID uint    `json:"student_id" binding:"required"`
	Score     float64 `json:"score"`
	Comment   string  `json:"comment"`
}

// StudentSummary - итог ученика: средние по категориям и итоговая оценка.
type StudentSummary struct {
	StudentID  uint               `json:"student_id"`
	FullName   string             `json:"full_name"`
	Categories map[string]float64 `json:"categories"`
	Final      float64            `json:"final"`
	Graded     int                `json:"graded"` // число оценённых работ
}

// ListActivitiesHandler возвращает работы группы в хронологическом порядке.
func ListActivitiesHandler(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Query("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан или некорректен group_id"})
		return
	}

	var activities []models.Activity
	if err := config.DB.Where("group_id = ?", groupID).Order("date, id").Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список работ"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": activities})
}

// CreateActivityHandler создаёт оцениваемую работу.
func CreateActivityHandler(c *gin.Context) {
	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	var group models.Group
	if err := config.DB.First(&group, input.GroupID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Указанная группа не существует"})
		return
	}

	activity, err := activityFromInput(&input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := config.DB.Create(activity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить работу"})
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// UpdateActivityHandler изменяет работу.
func UpdateActivityHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID работы"})
		return
	}

	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	var activity models.Activity
	if err := config.DB.First(&activity, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Работа не найдена"})
		return
	}

	updated, err := activityFromInput(&input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated.ID = activity.ID
	updated.CreatedAt = activity.CreatedAt
	if err := config.DB.Save(updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить работу"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteActivityHandler удаляет работу вместе с оценками.
func DeleteActivityHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID работы"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&models.Mark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Activity{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить работу"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Работа удалена"})
}

// SetMarksHandler пакетно сохраняет оценки за работу. Оценки пишутся в одной
// транзакции: либо сохраняется весь журнал, либо ничего.
func SetMarksHandler(c *gin.Context) {
	activityID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID работы"})
		return
	}

	var activity models.Activity
	if err := config.DB.First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Работа не найдена"})
		return
	}

	var input struct {
		Marks []MarkInput `json:"marks" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range input.Marks {
			var existing models.Mark
			err := tx.Where("activity_id = ? AND student_id = ?", activity.ID, m.StudentID).
				First(&existing).Error
			switch {
			case err == nil:
				existing.Score = m.Score
				existing.Comment = m.Comment
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			default:
				mark := models.Mark{
					ActivityID: activity.ID,
					StudentID:  m.StudentID,
					Score:      m.Score,
					Comment:    m.Comment,
				}
				if err := tx.Create(&mark).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить оценки"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Оценки сохранены"})
}

// ListMarksHandler возвращает оценки за работу.
func ListMarksHandler(c *gin.Context) {
	activityID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID работы"})
		return
	}
	var marks []models.Mark
	if err := config.DB.Where("activity_id = ?", activityID).Find(&marks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить оценки"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": marks})
}

// GetGroupSummaryHandler считает итоги группы: средние по категориям
// (приведённые к десятибалльной шкале и взвешенные по весу работы) и итоговую
// оценку. Если у группы задана формула, итог считается по ней: именами
// переменных служат категории работ, например "examenes*0.6 + tareas*0.4".
// Без формулы берётся взвешенное среднее по всем работам.
func GetGroupSummaryHandler(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID группы"})
		return
	}

	var group models.Group
	if err := config.DB.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Группа не найдена"})
		return
	}

	var students []models.Student
	if err := config.DB.Where("group_id = ?", group.ID).Order("last_name, first_name").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить учеников"})
		return
	}
	var activities []models.Activity
	if err := config.DB.Where("group_id = ?", group.ID).Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить работы"})
		return
	}

	activityByID := make(map[uint]models.Activity, len(activities))
	activityIDs := make([]uint, 0, len(activities))
	for _, a := range activities {
		activityByID[a.ID] = a
		activityIDs = append(activityIDs, a.ID)
	}

	var marks []models.Mark
	if len(activityIDs) > 0 {
		if err := config.DB.Where("activity_id IN ?", activityIDs).Find(&marks).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить оценки"})
			return
		}
	}
	marksByStudent := make(map[uint][]models.Mark)
	for _, m := range marks {
		marksByStudent[m.StudentID] = append(marksByStudent[m.StudentID], m)
	}

	summaries := make([]StudentSummary, 0, len(students))
	for _, st := range students {
		summary := summarizeStudent(&st, &group, marksByStudent[st.ID], activityByID)
		summaries = append(summaries, summary)
	}
	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

// --- Вспомогательные функции ---

func activityFromInput(input *ActivityInput) (*models.Activity, error) {
	activity := &models.Activity{
		GroupID:  input.GroupID,
		Title:    input.Title,
		Category: input.Category,
		Weight:   input.Weight,
		MaxScore: input.MaxScore,
	}
	if activity.Weight <= 0 {
		activity.Weight = 1
	}
	if activity.MaxScore <= 0 {
		activity.MaxScore = 10
	}
	if input.Date != "" {
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, err
		}
		activity.Date = date
	}
	return activity, nil
}

// summarizeStudent считает средние по категориям и итог одного ученика.
func summarizeStudent(st *models.Student, group *models.Group, marks []models.Mark, activities map[uint]models.Activity) StudentSummary {
	type acc struct{ sum, weight float64 }
	byCategory := make(map[string]*acc)
	total := acc{}

	for _, m := range marks {
		activity, ok := activities[m.ActivityID]
		if !ok {
			continue
		}
		// Работы с нулевым весом или максимумом в среднем не участвуют: формы
		// такие значения не пропускают, но они могут прийти из резервной копии.
		if activity.Weight <= 0 || activity.MaxScore <= 0 {
			continue
		}
		// Приводим оценку к десятибалльной шкале независимо от максимума работы.
		normalized := m.Score / activity.MaxScore * 10

		cat := byCategory[activity.Category]
		if cat == nil {
			cat = &acc{}
			byCategory[activity.Category] = cat
		}
		cat.sum += normalized * activity.Weight
		cat.weight += activity.Weight
		total.sum += normalized * activity.Weight
		total.weight += activity.Weight
	}

	summary := StudentSummary{
		StudentID:  st.ID,
		FullName:   st.LastName + " " + st.FirstName,
		Categories: make(map[string]float64, len(byCategory)),
		Graded:     len(marks),
	}
	params := make(map[string]interface{}, len(byCategory))
	for name, a := range byCategory {
		avg := a.sum / a.weight
		summary.Categories[name] = avg
		params[name] = avg
	}

	if group.GradingFormula != "" {
		expression, err := govaluate.NewEvaluableExpression(group.GradingFormula)
		if err == nil {
			if result, err := expression.Evaluate(params); err == nil {
				if value, ok := result.(float64); ok {
					summary.Final = value
					return summary
				}
			}
		}
		// Ошибка формулы не валит весь отчёт: для ученика берётся обычное среднее.
	}
	if total.weight > 0 {
		summary.Final = total.sum / total.weight
	}
	return summary
}
