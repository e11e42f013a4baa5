package controllers

import (
	"project/backend/analytics"
	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SessionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSessionsController(db *gorm.DB, cfg *config.Config) *SessionsController {
	return &SessionsController{DB: db, Cfg: cfg}
}

// GetSessions возвращает сессии пользователя, новые сверху
func (sc *SessionsController) GetSessions(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	query := sc.DB.Model(&models.StudySession{}).
		Joins("JOIN subjects ON subjects.id = study_sessions.subject_id").
		Where("subjects.user_id = ?", userID).
		Preload("Subject")

	if subjectID := c.QueryInt("subject_id", 0); subjectID > 0 {
		query = query.Where("study_sessions.subject_id = ?", subjectID)
	}

	var sessions []models.StudySession
	if err := query.Order("study_sessions.timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&sessions).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}

	result := make([]fiber.Map, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, sessionToMap(s))
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// CreateSession создает учебную сессию
func (sc *SessionsController) CreateSession(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		SubjectID  uint    `json:"subject_id"`
		TimeSpent  float64 `json:"time_spent"`
		Topic      string  `json:"topic"`
		FocusLevel *int    `json:"focus_level"`
		Notes      string  `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.SubjectID == 0 {
		return utils.BadRequest(c, "Subject ID is required")
	}
	if input.TimeSpent <= 0 {
		return utils.BadRequest(c, "Valid time spent is required")
	}
	if input.FocusLevel != nil && (*input.FocusLevel < 1 || *input.FocusLevel > 10) {
		return utils.BadRequest(c, "Focus level must be between 1 and 10")
	}

	// Проверяем, что предмет принадлежит пользователю
	var subject models.Subject
	if err := sc.DB.Where("id = ? AND user_id = ?", input.SubjectID, userID).First(&subject).Error; err != nil {
		return utils.NotFound(c, "Subject not found")
	}

	session := models.StudySession{
		SubjectID:  input.SubjectID,
		TimeSpent:  input.TimeSpent,
		Topic:      input.Topic,
		FocusLevel: input.FocusLevel,
		Notes:      input.Notes,
		Timestamp:  time.Now().UTC(),
	}
	if err := sc.DB.Create(&session).Error; err != nil {
		return utils.InternalServerError(c, "Could not create session")
	}
	session.Subject = subject

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Study session created successfully",
		"session": sessionToMap(session),
	})
}

// GetSession возвращает одну сессию пользователя
func (sc *SessionsController) GetSession(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	session, err := sc.findUserSession(c, userID)
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, sessionToMap(*session))
}

// UpdateSession обновляет поля сессии
func (sc *SessionsController) UpdateSession(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	session, err := sc.findUserSession(c, userID)
	if err != nil {
		return err
	}

	var input struct {
		TimeSpent  *float64 `json:"time_spent"`
		Topic      *string  `json:"topic"`
		FocusLevel *int     `json:"focus_level"`
		Notes      *string  `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.TimeSpent != nil {
		if *input.TimeSpent <= 0 {
			return utils.BadRequest(c, "Time spent must be greater than 0")
		}
		session.TimeSpent = *input.TimeSpent
	}
	if input.Topic != nil {
		session.Topic = *input.Topic
	}
	if input.FocusLevel != nil {
		if *input.FocusLevel < 1 || *input.FocusLevel > 10 {
			return utils.BadRequest(c, "Focus level must be between 1 and 10")
		}
		session.FocusLevel = input.FocusLevel
	}
	if input.Notes != nil {
		session.Notes = *input.Notes
	}

	if err := sc.DB.Save(session).Error; err != nil {
		return utils.InternalServerError(c, "Could not update session")
	}

	return utils.Message(c, fiber.StatusOK, "Session updated successfully", sessionToMap(*session))
}

// DeleteSession удаляет сессию пользователя
func (sc *SessionsController) DeleteSession(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	session, err := sc.findUserSession(c, userID)
	if err != nil {
		return err
	}

	if err := sc.DB.Delete(session).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete session")
	}

	return utils.Message(c, fiber.StatusOK, "Session deleted successfully", nil)
}

// GetAnalytics godoc
// @Summary Get study analytics
// @Description Returns aggregated study statistics for the requested period
// @Tags sessions
// @Produce json
// @Param days query int false "Period length in days (default 7)"
// @Success 200 {object} analytics.AnalyticsReport
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /sessions/analytics [get]
func (sc *SessionsController) GetAnalytics(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	days, err := queryDays(c, analytics.DefaultInsightsDays)
	if err != nil {
		return utils.BadRequest(c, "Invalid days parameter")
	}

	window, err := analytics.ResolveWindow(time.Now().UTC(), days)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	records, err := loadUserSessionRecords(sc.DB, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}

	return utils.Success(c, fiber.StatusOK, analytics.UserAnalytics(records, window))
}

// GetStreak godoc
// @Summary Get study streaks
// @Description Returns current and longest consecutive-day study streaks
// @Tags sessions
// @Produce json
// @Success 200 {object} analytics.StreakResult
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /sessions/streak [get]
func (sc *SessionsController) GetStreak(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	records, err := loadUserSessionRecords(sc.DB, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}

	timestamps := make([]time.Time, 0, len(records))
	for _, r := range records {
		timestamps = append(timestamps, r.Timestamp)
	}

	return utils.Success(c, fiber.StatusOK, analytics.ComputeStreak(timestamps, time.Now().UTC()))
}

// findUserSession ищет сессию из параметра пути с проверкой владельца
func (sc *SessionsController) findUserSession(c *fiber.Ctx, userID uint) (*models.StudySession, error) {
	sessionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid session ID")
	}

	var session models.StudySession
	if err := sc.DB.
		Joins("JOIN subjects ON subjects.id = study_sessions.subject_id").
		Where("study_sessions.id = ? AND subjects.user_id = ?", sessionID, userID).
		Preload("Subject").
		First(&session).Error; err != nil {
		return nil, utils.NotFound(c, "Session not found")
	}
	return &session, nil
}

// loadUserSessionRecords загружает все сессии пользователя в виде записей
// для движка аналитики, по возрастанию времени
func loadUserSessionRecords(db *gorm.DB, userID uint) ([]analytics.SessionRecord, error) {
	var sessions []models.StudySession
	if err := db.
		Joins("JOIN subjects ON subjects.id = study_sessions.subject_id").
		Where("subjects.user_id = ?", userID).
		Preload("Subject").
		Order("study_sessions.timestamp ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return toSessionRecords(sessions), nil
}

func toSessionRecords(sessions []models.StudySession) []analytics.SessionRecord {
	records := make([]analytics.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, analytics.SessionRecord{
			ID:           s.ID,
			UserID:       s.Subject.UserID,
			SubjectID:    s.SubjectID,
			SubjectName:  s.Subject.Name,
			SubjectColor: s.Subject.Color,
			TimeSpent:    s.TimeSpent,
			Topic:        s.Topic,
			FocusLevel:   s.FocusLevel,
			Timestamp:    s.Timestamp,
		})
	}
	return records
}

func sessionToMap(s models.StudySession) fiber.Map {
	return fiber.Map{
		"id":           s.ID,
		"subject_id":   s.SubjectID,
		"subject_name": s.Subject.Name,
		"time_spent":   s.TimeSpent,
		"topic":        s.Topic,
		"focus_level":  s.FocusLevel,
		"notes":        s.Notes,
		"timestamp":    s.Timestamp.UTC().Format(time.RFC3339),
	}
}

// queryDays читает параметр days, отклоняя нечисловые значения
func queryDays(c *fiber.Ctx, defaultDays int) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return defaultDays, nil
	}
	return strconv.Atoi(raw)
}
