// cuaderno-crm/internal/handlers/backup_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cuaderno-crm/config"
	"cuaderno-crm/internal/schedule"
	"cuaderno-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Backup - полный снимок данных журнала для ручного резервного копирования.
// Восстановление - полная замена всех данных, не слияние.
type Backup struct {
	ExportedAt time.Time                 `json:"exported_at"`
	Groups     []models.Group            `json:"groups"`
	Students   []models.Student          `json:"students"`
	Activities []models.Activity         `json:"activities"`
	Marks      []models.Mark             `json:"marks"`
	Attendance []models.AttendanceRecord `json:"attendance"`
	Schedule   []*schedule.Entry         `json:"schedule"`
}

// ExportBackupHandler выгружает все данные журнала одним JSON-файлом.
func ExportBackupHandler(c *gin.Context) {
	backup := Backup{ExportedAt: time.Now(), Schedule: ScheduleStore.Entries()}

	if err := config.DB.Find(&backup.Groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось выгрузить группы"})
		return
	}
	if err := config.DB.Find(&backup.Students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось выгрузить учеников"})
		return
	}
	if err := config.DB.Find(&backup.Activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось выгрузить работы"})
		return
	}
	if err := config.DB.Find(&backup.Marks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось выгрузить оценки"})
		return
	}
	if err := config.DB.Find(&backup.Attendance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось выгрузить посещаемость"})
		return
	}

	fileName := fmt.Sprintf("cuaderno_backup_%s.json", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.JSON(http.StatusOK, backup)
}

// ImportBackupHandler восстанавливает журнал из файла резервной копии.
// Данные заменяются целиком в одной транзакции; подтверждение у пользователя
// спрашивает фронтенд до отправки файла. Ошибка на любом шаге откатывает всё.
func ImportBackupHandler(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл не получен"})
		return
	}
	defer file.Close()

	var backup Backup
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл не является корректной резервной копией"})
		return
	}

	// Расписание из копии проверяется до того, как тронута база.
	if err := schedule.ValidateSet(backup.Schedule); err != nil {
		respondScheduleError(c, err)
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		tables := []interface{}{
			&models.Mark{}, &models.AttendanceRecord{}, &models.Activity{},
			&models.Student{}, &models.Group{},
		}
		for _, table := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
				return err
			}
		}

		for i := range backup.Groups {
			if err := tx.Create(&backup.Groups[i]).Error; err != nil {
				return err
			}
		}
		for i := range backup.Students {
			if err := tx.Create(&backup.Students[i]).Error; err != nil {
				return err
			}
		}
		for i := range backup.Activities {
			if err := tx.Create(&backup.Activities[i]).Error; err != nil {
				return err
			}
		}
		for i := range backup.Marks {
			if err := tx.Create(&backup.Marks[i]).Error; err != nil {
				return err
			}
		}
		for i := range backup.Attendance {
			if err := tx.Create(&backup.Attendance[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось восстановить данные: " + err.Error()})
		return
	}

	if err := ScheduleStore.ReplaceAll(backup.Schedule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Данные восстановлены, но расписание не сохранилось: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Резервная копия восстановлена"})
}
