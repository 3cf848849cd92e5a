// cuaderno-crm/internal/routes/api_routes.go
package routes

import (
	"cuaderno-crm/internal/handlers"
	"cuaderno-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes регистрирует публичные маршруты, не требующие сессии.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/login", handlers.LoginHandler)
	r.GET("/logout", handlers.LogoutHandler)
}

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(r *gin.Engine) {
	api := r.Group("/api", middleware.AuthMiddleware())
	{
		// --- РАСПИСАНИЕ ---
		schedule := api.Group("/schedule")
		{
			schedule.GET("/grid", handlers.GetScheduleGridHandler)
			schedule.POST("/entries", handlers.CreateScheduleEntryHandler)
			schedule.PUT("/entries/:id", handlers.UpdateScheduleEntryHandler)
			schedule.DELETE("/entries/:id", handlers.DeleteScheduleEntryHandler)
			schedule.PUT("/entries/:id/notes/:date", handlers.SaveEntryNoteHandler)
			schedule.GET("/settings", handlers.GetViewSettingsHandler)
			schedule.PUT("/settings", handlers.UpdateViewSettingsHandler)
			schedule.GET("/export", handlers.ExportScheduleHandler)
			schedule.POST("/import", handlers.ImportScheduleHandler)
		}

		// --- ГРУППЫ ---
		groups := api.Group("/groups")
		{
			groups.GET("", handlers.ListGroupsHandler)
			groups.POST("", handlers.CreateGroupHandler)
			groups.PUT("/:id", handlers.UpdateGroupHandler)
			groups.DELETE("/:id", handlers.DeleteGroupHandler)
			groups.GET("/:id/summary", handlers.GetGroupSummaryHandler)
		}

		// --- УЧЕНИКИ ---
		students := api.Group("/students")
		{
			students.GET("", handlers.ListStudentsHandler)
			students.POST("", handlers.CreateStudentHandler)
			students.PUT("/:id", handlers.UpdateStudentHandler)
			students.DELETE("/:id", handlers.DeleteStudentHandler)
			students.GET("/:id/attendance", handlers.GetStudentAttendanceHandler)
		}

		// --- РАБОТЫ И ОЦЕНКИ ---
		activities := api.Group("/activities")
		{
			activities.GET("", handlers.ListActivitiesHandler)
			activities.POST("", handlers.CreateActivityHandler)
			activities.PUT("/:id", handlers.UpdateActivityHandler)
			activities.DELETE("/:id", handlers.DeleteActivityHandler)
			activities.GET("/:id/marks", handlers.ListMarksHandler)
			activities.POST("/:id/marks", handlers.SetMarksHandler)
		}

		// --- ПОСЕЩАЕМОСТЬ ---
		attendance := api.Group("/attendance")
		{
			attendance.GET("", handlers.GetAttendanceHandler)
			attendance.POST("", handlers.SaveAttendanceHandler)
		}

		// --- РЕЗЕРВНЫЕ КОПИИ ---
		backup := api.Group("/backup")
		{
			backup.GET("/export", handlers.ExportBackupHandler)
			backup.POST("/import", handlers.ImportBackupHandler)
		}
	}
}
