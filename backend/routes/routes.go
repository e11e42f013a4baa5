package routes

import (
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	userController := controllers.NewUserController(db, cfg)
	app.Post("/api/auth/signup", authController.Signup)
	app.Post("/api/auth/login", authController.Login)
	app.Get("/api/auth/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/auth/profile", authMiddleware, userController.UpdateProfile)
	app.Post("/api/auth/change-password", authMiddleware, userController.ChangePassword)

	// Subjects routes
	subjectsController := controllers.NewSubjectsController(db, cfg)
	subjects := app.Group("/api/subjects", authMiddleware)
	subjects.Get("/", subjectsController.GetSubjects)
	subjects.Post("/", subjectsController.CreateSubject)
	subjects.Get("/stats", subjectsController.GetSubjectStats)
	subjects.Get("/:id", subjectsController.GetSubject)
	subjects.Put("/:id", subjectsController.UpdateSubject)
	subjects.Delete("/:id", subjectsController.DeleteSubject)

	// Sessions routes
	sessionsController := controllers.NewSessionsController(db, cfg)
	sessions := app.Group("/api/sessions", authMiddleware)
	sessions.Get("/", sessionsController.GetSessions)
	sessions.Post("/", sessionsController.CreateSession)
	sessions.Get("/analytics", sessionsController.GetAnalytics)
	sessions.Get("/streak", sessionsController.GetStreak)
	sessions.Get("/:id", sessionsController.GetSession)
	sessions.Put("/:id", sessionsController.UpdateSession)
	sessions.Delete("/:id", sessionsController.DeleteSession)

	// Audio notes routes
	audioController := controllers.NewAudioController(db, cfg)
	audio := app.Group("/api/audio", authMiddleware)
	audio.Get("/", audioController.GetAudioNotes)
	audio.Post("/", audioController.CreateAudioNote)
	audio.Get("/recent", audioController.GetRecentAudioNotes)
	audio.Get("/stats", audioController.GetAudioStats)
	audio.Get("/:id", audioController.GetAudioNote)
	audio.Put("/:id", audioController.UpdateAudioNote)
	audio.Delete("/:id", audioController.DeleteAudioNote)

	// Insights routes
	insightsController := controllers.NewInsightsController(db, cfg)
	insights := app.Group("/api/insights", authMiddleware)
	insights.Get("/suggestions", insightsController.GetSuggestions)
	insights.Get("/weekly", insightsController.GetWeeklyInsights)
	insights.Get("/subjects/:id/feedback", insightsController.GetSubjectFeedback)

	// Admin routes
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Get("/dashboard", adminController.GetDashboard)
	admin.Get("/users", adminController.GetUsers)
	admin.Get("/users/:id", adminController.GetUserDetails)
	admin.Put("/users/:id/role", adminController.UpdateUserRole)
	admin.Get("/subjects/categories", adminController.GetSubjectCategories)
	admin.Post("/subjects/categories", adminController.CreateSubjectCategory)
	admin.Delete("/subjects/categories/:name", adminController.DeleteSubjectCategory)
	admin.Get("/audio/monitor", adminController.MonitorAudioNotes)
	admin.Post("/audio/:id/flag", adminController.FlagAudioNote)
	admin.Get("/analytics/usage", adminController.GetUsageAnalytics)
}
