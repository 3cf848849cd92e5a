// cuaderno-crm/models/attendance.go
package models

import "gorm.io/gorm"

// Статусы посещаемости.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// AttendanceRecord - отметка посещаемости ученика на дату.
// Дата хранится строкой "2006-01-02", как и ключи ежедневных заметок расписания.
type AttendanceRecord struct {
	gorm.Model
	StudentID uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance"`
	Date      string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance"`
	Status    string `json:"status" gorm:"not null"`
	Comment   string `json:"comment"`
}
