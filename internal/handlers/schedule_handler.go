// cuaderno-crm/internal/handlers/schedule_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"cuaderno-crm/config"
	"cuaderno-crm/internal/schedule"
	"cuaderno-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ScheduleEntryInput - данные формы создания/редактирования записи расписания.
// При создании можно отметить несколько дней недели сразу; при редактировании
// день записи не меняется и поле Days игнорируется.
type ScheduleEntryInput struct {
	Days     []int  `json:"days"`
	Kind     string `json:"type" binding:"required"`
	Start    string `json:"start_time" binding:"required"`
	End      string `json:"end_time" binding:"required"`
	GroupKey string `json:"group_key"`
	Name     string `json:"name"`
	Color    string `json:"color"`
}

// EntryNoteInput - данные формы ежедневной заметки. Набор значимых полей
// зависит от типа записи; лишние поля игнорируются.
type EntryNoteInput struct {
	Contents      string `json:"contents"`
	Tasks         string `json:"tasks"`
	Pending       string `json:"pending"`
	Incidents     string `json:"incidents"`
	Group         string `json:"group"`
	AbsentTeacher string `json:"absent_teacher"`
	Summary       string `json:"summary"`
}

// ViewSettingsInput - форма настроек видимого окна сетки.
type ViewSettingsInput struct {
	DisplayStart string `json:"display_start" binding:"required"`
	DisplayEnd   string `json:"display_end" binding:"required"`
}

// GetScheduleGridHandler отдаёт сетку расписания на неделю с учётом фильтров.
func GetScheduleGridHandler(c *gin.Context) {
	weekOf := time.Now()
	if raw := c.Query("week"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата недели: " + raw})
			return
		}
		weekOf = parsed
	}

	settings, err := loadViewSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить настройки сетки"})
		return
	}

	filter := schedule.Filter{
		GroupKey: c.Query("group"),
		Notes:    schedule.NotesFilter(c.Query("notes")),
	}
	switch kind := c.Query("type"); kind {
	case "", "all":
	case "classes":
		filter.AllClasses = true
	default:
		filter.Kind = schedule.Kind(kind)
	}

	view := schedule.View{
		WeekOf:       weekOf,
		DisplayStart: settings.DisplayStart,
		DisplayEnd:   settings.DisplayEnd,
		Filter:       filter,
	}

	grid, err := schedule.BuildGrid(ScheduleStore.Entries(), view, groupDirectory())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось построить сетку: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, grid)
}

// CreateScheduleEntryHandler создаёт запись на один или несколько дней недели.
// Проверка проходит для всех дней до изменения расписания: либо создаются
// все записи, либо ни одной.
func CreateScheduleEntryHandler(c *gin.Context) {
	var input ScheduleEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	base := entryFromInput(&input)
	days := make([]schedule.Day, 0, len(input.Days))
	for _, d := range input.Days {
		days = append(days, schedule.Day(d))
	}

	added, err := ScheduleStore.AddForDays(base, days)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entries": added})
}

// UpdateScheduleEntryHandler изменяет существующую запись (день не меняется).
func UpdateScheduleEntryHandler(c *gin.Context) {
	var input ScheduleEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	updated, err := ScheduleStore.Update(c.Param("id"), entryFromInput(&input))
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteScheduleEntryHandler удаляет запись расписания.
func DeleteScheduleEntryHandler(c *gin.Context) {
	if err := ScheduleStore.Remove(c.Param("id")); err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Запись удалена"})
}

// SaveEntryNoteHandler сохраняет ежедневную заметку записи на дату.
// Полностью пустая заметка удаляет дату: разреженные карты заметок не
// хранят пустых объектов.
func SaveEntryNoteHandler(c *gin.Context) {
	id := c.Param("id")
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата: " + date})
		return
	}

	var input EntryNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	entry, ok := ScheduleStore.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Запись не найдена"})
		return
	}

	var err error
	switch entry.Kind {
	case schedule.KindClass:
		err = ScheduleStore.SetClassNote(id, date, schedule.ClassNote{
			Contents:  input.Contents,
			Tasks:     input.Tasks,
			Pending:   input.Pending,
			Incidents: input.Incidents,
		})
	case schedule.KindDuty:
		err = ScheduleStore.SetDutyNote(id, date, schedule.DutyNote{
			Group:         input.Group,
			AbsentTeacher: input.AbsentTeacher,
			Summary:       input.Summary,
			Pending:       input.Pending,
			Incidents:     input.Incidents,
		})
	default:
		err = ScheduleStore.SetGenericNote(id, date, schedule.GenericNote{
			Summary:   input.Summary,
			Pending:   input.Pending,
			Incidents: input.Incidents,
		})
	}
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Заметка сохранена"})
}

// GetViewSettingsHandler отдаёт текущее видимое окно сетки.
func GetViewSettingsHandler(c *gin.Context) {
	settings, err := loadViewSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить настройки"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateViewSettingsHandler меняет видимое окно сетки. Пустое или
// перевёрнутое окно отклоняется, в базе остаются прежние значения -
// некорректная конфигурация не доходит до отрисовки.
func UpdateViewSettingsHandler(c *gin.Context) {
	var input ViewSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса: " + err.Error()})
		return
	}

	if _, err := schedule.WindowMinutes(input.DisplayStart, input.DisplayEnd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Недопустимое окно отображения: " + err.Error()})
		return
	}

	settings, err := loadViewSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить настройки"})
		return
	}
	settings.DisplayStart = input.DisplayStart
	settings.DisplayEnd = input.DisplayEnd
	if err := config.DB.Save(settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить настройки"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ExportScheduleHandler выгружает расписание в файл Excel.
func ExportScheduleHandler(c *gin.Context) {
	rows, err := schedule.ExportRows(ScheduleStore.Entries(), groupDirectory())
	if err != nil {
		if errors.Is(err, schedule.ErrNothingToExport) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Нет данных для экспорта"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось подготовить экспорт"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Horario"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range schedule.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for r, row := range rows {
		for i, col := range schedule.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(sheetName, cell, row[col])
		}
	}

	fileName := fmt.Sprintf("horario_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось записать файл Excel"})
	}
}

// ImportScheduleHandler загружает расписание из файла Excel. Импорт - полная
// замена текущего расписания: сначала целиком проверяется весь файл
// (подписи, обязательные поля, группы, пересечения), и только потом
// происходит атомарная замена. Любая ошибка оставляет расписание нетронутым.
func ImportScheduleHandler(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл не получен"})
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не удалось прочитать файл Excel"})
		return
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "В файле нет листов"})
		return
	}
	rawRows, err := f.GetRows(sheets[0])
	if err != nil || len(rawRows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл пустой или без строки заголовков"})
		return
	}

	header := rawRows[0]
	rows := make([]schedule.Row, 0, len(rawRows)-1)
	for _, raw := range rawRows[1:] {
		row := schedule.Row{}
		for i, name := range header {
			if i < len(raw) {
				row[name] = raw[i]
			}
		}
		rows = append(rows, row)
	}

	entries, err := schedule.ImportRows(rows, groupDirectory())
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	if err := ScheduleStore.ReplaceAll(entries); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить расписание"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Импортировано записей: %d", len(entries))})
}

// --- Вспомогательные функции ---

func groupDirectory() schedule.GroupDirectory {
	return &dbGroupDirectory{db: config.DB}
}

// entryFromInput собирает запись ядра из данных формы, заполняя ровно один
// вариантный блок по типу.
func entryFromInput(input *ScheduleEntryInput) *schedule.Entry {
	e := &schedule.Entry{
		Start: input.Start,
		End:   input.End,
		Kind:  schedule.Kind(input.Kind),
	}
	switch e.Kind {
	case schedule.KindClass:
		e.Class = &schedule.ClassFields{GroupKey: input.GroupKey}
	case schedule.KindDuty:
		e.Duty = &schedule.DutyFields{Name: input.Name, Color: input.Color}
	default:
		e.Generic = &schedule.GenericFields{Name: input.Name, Color: input.Color}
	}
	return e
}

// respondScheduleError переводит ошибку ядра в HTTP-ответ с человекочитаемым
// сообщением: день, интервал и название конфликтующей записи.
func respondScheduleError(c *gin.Context, err error) {
	var conflict *schedule.ConflictError
	switch {
	case errors.As(err, &conflict):
		msg := fmt.Sprintf("Пересечение: %s %s-%s уже занято записью «%s» (%s-%s)",
			schedule.DayLabel(conflict.Day), conflict.Start, conflict.End,
			conflict.With.DisplayName(groupDirectory()), conflict.With.Start, conflict.With.End)
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	case errors.Is(err, schedule.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Запись не найдена"})
	case errors.Is(err, schedule.ErrUnknownGroup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, schedule.ErrInvalidRange),
		errors.Is(err, schedule.ErrMissingField),
		errors.Is(err, schedule.ErrUnknownLabel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// loadViewSettings возвращает строку настроек, создавая запись с окном по
// умолчанию при первом обращении.
func loadViewSettings() (*models.ViewSettings, error) {
	var settings models.ViewSettings
	err := config.DB.First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	settings = models.ViewSettings{DisplayStart: "08:00", DisplayEnd: "21:00"}
	if err := config.DB.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
