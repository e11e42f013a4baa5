package controllers

import (
	"fmt"
	"project/backend/analytics"
	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

// GetDashboard godoc
// @Summary Admin dashboard
// @Description Returns platform-wide counters, recent activity and top subjects
// @Tags admin
// @Produce json
// @Success 200 {object} analytics.DashboardReport
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/dashboard [get]
func (ac *AdminController) GetDashboard(c *fiber.Ctx) error {
	now := time.Now().UTC()

	var counts analytics.OverviewCounts
	ac.DB.Model(&models.User{}).Count(&counts.TotalUsers)
	ac.DB.Model(&models.Subject{}).Count(&counts.TotalSubjects)
	ac.DB.Model(&models.StudySession{}).Count(&counts.TotalSessions)
	ac.DB.Model(&models.AudioNote{}).Count(&counts.TotalAudioNotes)

	// Приросты за последние 7 дней
	weekAgo := now.AddDate(0, 0, -7)
	var recent analytics.RecentActivity
	ac.DB.Model(&models.User{}).Where("created_at >= ?", weekAgo).Count(&recent.NewUsers)
	ac.DB.Model(&models.StudySession{}).Where("timestamp >= ?", weekAgo).Count(&recent.NewSessions)
	ac.DB.Model(&models.AudioNote{}).Where("timestamp >= ?", weekAgo).Count(&recent.NewAudioNotes)

	sessions, err := loadAllSessionRecords(ac.DB)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}

	return utils.Success(c, fiber.StatusOK, analytics.Dashboard(sessions, counts, recent, now))
}

// GetUsers возвращает пользователей со счетчиками активности, постранично
func (ac *AdminController) GetUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 20)
	if page < 1 {
		page = 1
	}

	var total int64
	ac.DB.Model(&models.User{}).Count(&total)

	var users []models.User
	if err := ac.DB.Order("id ASC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch users")
	}

	result := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		var sessionCount int64
		ac.DB.Model(&models.StudySession{}).
			Joins("JOIN subjects ON subjects.id = study_sessions.subject_id").
			Where("subjects.user_id = ?", user.ID).
			Count(&sessionCount)

		var audioCount int64
		ac.DB.Model(&models.AudioNote{}).Where("user_id = ?", user.ID).Count(&audioCount)

		entry := userToMap(user)
		entry["session_count"] = sessionCount
		entry["audio_note_count"] = audioCount
		result = append(result, entry)
	}

	return utils.Paginate(c, result, total, page, perPage)
}

// GetUserDetails возвращает карточку пользователя с активностью за 30 дней
func (ac *AdminController) GetUserDetails(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var subjects []models.Subject
	ac.DB.Preload("StudySessions").Where("user_id = ?", user.ID).Find(&subjects)
	subjectMaps := make([]fiber.Map, 0, len(subjects))
	for _, s := range subjects {
		subjectMaps = append(subjectMaps, subjectToMap(s))
	}

	window, err := analytics.ResolveWindow(time.Now().UTC(), analytics.DefaultDashboardDays)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	sessions, err := loadUserSessionRecords(ac.DB, user.ID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}
	notes, err := loadUserNoteRecords(ac.DB, user.ID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch audio notes")
	}

	details := userToMap(user)
	details["subjects"] = subjectMaps
	details["recent_activity"] = analytics.UserActivity(sessions, notes, window)

	return utils.Success(c, fiber.StatusOK, details)
}

// UpdateUserRole меняет роль пользователя
func (ac *AdminController) UpdateUserRole(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil || input.Role == "" {
		return utils.BadRequest(c, "Role is required")
	}
	if input.Role != "student" && input.Role != "admin" {
		return utils.BadRequest(c, "Invalid role. Must be student or admin")
	}

	user.Role = input.Role
	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user role")
	}

	return utils.Message(c, fiber.StatusOK, "User role updated successfully", userToMap(user))
}

// GetSubjectCategories возвращает уникальные названия предметов со
// статистикой использования
func (ac *AdminController) GetSubjectCategories(c *fiber.Ctx) error {
	var categories []struct {
		Name       string `json:"name"`
		UsageCount int64  `json:"usage_count"`
		UserCount  int64  `json:"user_count"`
	}

	if err := ac.DB.Model(&models.Subject{}).
		Select("name, COUNT(id) as usage_count, COUNT(DISTINCT user_id) as user_count").
		Group("name").
		Order("COUNT(id) DESC").
		Scan(&categories).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch categories")
	}

	return utils.Success(c, fiber.StatusOK, categories)
}

// CreateSubjectCategory регистрирует новое название предмета
func (ac *AdminController) CreateSubjectCategory(c *fiber.Ctx) error {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil || input.Name == "" {
		return utils.BadRequest(c, "Category name is required")
	}

	var existing models.Subject
	if err := ac.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		return utils.Conflict(c, "Category already exists")
	}

	// Категория закрепляется за административным пользователем
	var admin models.User
	if err := ac.DB.Where("role = ?", "admin").First(&admin).Error; err != nil {
		return utils.InternalServerError(c, "No admin user to own the category")
	}

	subject := models.Subject{Name: input.Name, UserID: admin.ID}
	if err := ac.DB.Create(&subject).Error; err != nil {
		return utils.InternalServerError(c, "Could not create category")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Subject category created successfully",
		"category": input.Name,
	})
}

// DeleteSubjectCategory удаляет все предметы с указанным названием
func (ac *AdminController) DeleteSubjectCategory(c *fiber.Ctx) error {
	name := c.Params("name")

	var subjects []models.Subject
	if err := ac.DB.Where("name = ?", name).Find(&subjects).Error; err != nil || len(subjects) == 0 {
		return utils.NotFound(c, "Category not found")
	}

	for _, s := range subjects {
		if err := ac.DB.Select("StudySessions").Delete(&s).Error; err != nil {
			return utils.InternalServerError(c, "Could not delete category")
		}
	}

	return utils.Message(c, fiber.StatusOK,
		fmt.Sprintf("Category %q deleted successfully", name),
		fiber.Map{"deleted_subjects": len(subjects)})
}

// MonitorAudioNotes возвращает последние аудиозаметки платформы
func (ac *AdminController) MonitorAudioNotes(c *fiber.Ctx) error {
	var notes []models.AudioNote
	if err := ac.DB.Order("timestamp DESC").Limit(50).Find(&notes).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch audio notes")
	}

	result := make([]fiber.Map, 0, len(notes))
	for _, note := range notes {
		email := "Unknown"
		var user models.User
		if err := ac.DB.First(&user, note.UserID).Error; err == nil {
			email = user.Email
		}

		result = append(result, fiber.Map{
			"id":         note.ID,
			"user_email": email,
			"transcript": note.Transcript,
			"duration":   note.Duration,
			"timestamp":  note.Timestamp.UTC().Format(time.RFC3339),
			"audio_url":  note.AudioURL,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// FlagAudioNote помечает аудиозаметку для модерации
func (ac *AdminController) FlagAudioNote(c *fiber.Ctx) error {
	noteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid audio note ID")
	}

	var note models.AudioNote
	if err := ac.DB.First(&note, noteID).Error; err != nil {
		return utils.NotFound(c, "Audio note not found")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil || input.Reason == "" {
		input.Reason = "Flagged by admin"
	}

	return utils.Message(c, fiber.StatusOK, "Audio note flagged successfully", fiber.Map{
		"note_id": note.ID,
		"reason":  input.Reason,
	})
}

// GetUsageAnalytics godoc
// @Summary Platform usage analytics
// @Description Returns daily signups, daily sessions and engagement rate
// @Tags admin
// @Produce json
// @Param days query int false "Period length in days (default 30)"
// @Success 200 {object} analytics.UsageReport
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/analytics/usage [get]
func (ac *AdminController) GetUsageAnalytics(c *fiber.Ctx) error {
	days, err := queryDays(c, analytics.DefaultDashboardDays)
	if err != nil {
		return utils.BadRequest(c, "Invalid days parameter")
	}
	window, err := analytics.ResolveWindow(time.Now().UTC(), days)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var users []models.User
	if err := ac.DB.Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch users")
	}
	signups := make([]time.Time, 0, len(users))
	for _, u := range users {
		signups = append(signups, u.CreatedAt)
	}

	sessions, err := loadAllSessionRecords(ac.DB)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}

	report := analytics.UsageAnalytics(signups, sessions, int64(len(users)), window)
	return utils.Success(c, fiber.StatusOK, report)
}

// loadAllSessionRecords загружает сессии всех пользователей платформы
func loadAllSessionRecords(db *gorm.DB) ([]analytics.SessionRecord, error) {
	var sessions []models.StudySession
	if err := db.Preload("Subject").
		Order("timestamp ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return toSessionRecords(sessions), nil
}
