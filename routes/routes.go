package routes

import (
	"LifeOSGo/config"
	"LifeOSGo/controllers"
	"LifeOSGo/middleware"
	"LifeOSGo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, aiService *services.AIService, internalAuthToken string) {
	publisher := services.NewRedisPublisher(config.RedisClient)
	progressionService := services.NewProgressionService(config.DB, config.Logger, publisher)
	trashService := services.NewTrashService(config.DB, config.Logger)

	authController := controllers.AuthController{}
	profileController := controllers.NewProfileController(progressionService)
	taskController := controllers.NewTaskController(progressionService)
	projectController := controllers.NewProjectController(progressionService, trashService)
	goalController := controllers.NewGoalController(trashService)
	noteController := controllers.NewNoteController(trashService)
	habitController := controllers.NewHabitController(progressionService)
	transactionController := controllers.NewTransactionController(progressionService)
	trashController := controllers.NewTrashController(trashService)
	aiController := controllers.NewAIController(aiService, progressionService)
	eventController := controllers.NewEventController(progressionService)

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/test-user", authController.CreateTestUser)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		// 账本与活动日志
		private.GET("/profile/ledger", profileController.GetLedger)
		private.GET("/profile/activities", profileController.GetActivityLog)
		private.POST("/profile/memory", profileController.LogMemory)
		private.GET("/events/ledger", eventController.SubscribeLedger)
		private.GET("/events/activities", eventController.SubscribeActivity)

		// 任务
		private.POST("/tasks", taskController.CreateTask)
		private.GET("/tasks", taskController.ListTasks)
		private.PATCH("/tasks/:id", taskController.UpdateTask)
		private.POST("/tasks/:id/complete", taskController.CompleteTask)
		private.POST("/focus-sessions", taskController.FocusSession)

		// 项目看板
		private.POST("/projects", projectController.CreateProject)
		private.GET("/projects", projectController.ListProjects)
		private.PATCH("/projects/:id", projectController.UpdateProject)
		private.POST("/projects/:id/status", projectController.UpdateStatus)
		private.DELETE("/projects/:id", projectController.DeleteProject)

		// 目标
		private.POST("/goals", goalController.CreateGoal)
		private.GET("/goals", goalController.ListGoals)
		private.PATCH("/goals/:id", goalController.UpdateGoal)
		private.DELETE("/goals/:id", goalController.DeleteGoal)

		// 笔记
		private.POST("/notes", noteController.SaveNote)
		private.GET("/notes", noteController.ListNotes)
		private.DELETE("/notes/:id", noteController.DeleteNote)

		// 习惯与健康
		private.POST("/habits", habitController.CreateHabit)
		private.GET("/habits", habitController.ListHabits)
		private.POST("/habits/:id/checkin", habitController.CheckIn)
		private.POST("/habits/:id/undo", habitController.UndoCheckIn)
		private.POST("/wellness/complete", habitController.CompleteWellnessGoal)

		// 收支
		private.POST("/transactions", transactionController.CreateTransaction)
		private.GET("/transactions", transactionController.ListTransactions)
		private.GET("/transactions/export", transactionController.ExportCSV)

		// 回收站
		private.GET("/trash", trashController.ListTrash)
		private.POST("/trash/items/:entityType/:id/restore", trashController.Restore)
		private.DELETE("/trash/items/:entityType/:id", trashController.Purge)
		private.POST("/trash/empty", trashController.PurgeAll)

		// AI 辅助
		private.POST("/ai/breakdown", aiController.BreakdownTask)
		private.POST("/ai/weekly-review", aiController.WeeklyReview)
		private.POST("/ai/notes-chat", aiController.NotesChat)
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(internalAuthToken))
	{
		internal.POST("/account/reset", profileController.ResetAccount)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
