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

type InsightsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewInsightsController(db *gorm.DB, cfg *config.Config) *InsightsController {
	return &InsightsController{DB: db, Cfg: cfg}
}

// GetWeeklyInsights godoc
// @Summary Get weekly insights
// @Description Returns a summary of the last 7 days of study activity
// @Tags insights
// @Produce json
// @Success 200 {object} analytics.InsightsReport
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /insights/weekly [get]
func (ic *InsightsController) GetWeeklyInsights(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ic.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	window, err := analytics.ResolveWindow(time.Now().UTC(), analytics.DefaultInsightsDays)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	sessions, err := loadUserSessionRecords(ic.DB, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}
	notes, err := loadUserNoteRecords(ic.DB, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch audio notes")
	}

	return utils.Success(c, fiber.StatusOK, analytics.WeeklyInsights(sessions, notes, window))
}

// GetSuggestions возвращает учебные подсказки по активности за период.
// Внешний генеративный сервис сюда не подключен: подсказки строятся
// детерминированно из сводки движка.
func (ic *InsightsController) GetSuggestions(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ic.Cfg)
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

	sessions, err := loadUserSessionRecords(ic.DB, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}
	notes, err := loadUserNoteRecords(ic.DB, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch audio notes")
	}

	insights := analytics.WeeklyInsights(sessions, notes, window)

	// Явная ветка "данных пока нет"
	if insights.TotalSessions == 0 {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"suggestions": []string{
				"Start by logging your first study session to get personalized suggestions!",
				"Set up your academic goals in your profile to receive targeted advice.",
			},
			"attention_areas":  []string{"No study data available yet"},
			"motivation":       "Every expert was once a beginner. Start your learning journey today!",
			"pattern_analysis": "No patterns to analyze yet. Begin studying to see insights.",
		})
	}

	suggestions := []string{
		"Focus on maintaining consistent study sessions",
	}
	attention := []string{}
	if insights.AverageFocusLevel > 0 && insights.AverageFocusLevel < 6 {
		suggestions = append(suggestions, "Try shorter sessions with breaks to improve your focus levels")
		attention = append(attention, "Focus levels")
	}
	if insights.LeastStudiedSubject.Name != "" && insights.SubjectsStudied > 1 {
		attention = append(attention, fmt.Sprintf("%s received the least study time this period", insights.LeastStudiedSubject.Name))
	}
	if len(attention) == 0 {
		attention = append(attention, "Study consistency")
	}

	pattern := fmt.Sprintf(
		"You studied %d subjects over %.2f hours in %d sessions.",
		insights.SubjectsStudied, insights.TotalStudyTime, insights.TotalSessions,
	)
	byDay := analytics.AggregateGroups(analytics.GroupSessions(window.FilterSessions(sessions), analytics.ByWeekday))
	if peak, err := analytics.Extremum(byDay, analytics.TotalTime, analytics.MaxOf); err == nil {
		pattern += fmt.Sprintf(" Your most productive day was %s.", peak.Key)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"suggestions":      suggestions,
		"attention_areas":  attention,
		"motivation":       "Keep up the great work!",
		"pattern_analysis": pattern,
	})
}

// GetSubjectFeedback godoc
// @Summary Get per-subject feedback
// @Description Returns 30-day statistics and guidance for one subject
// @Tags insights
// @Produce json
// @Success 200 {object} analytics.SubjectFeedbackReport
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /insights/subjects/{id}/feedback [get]
func (ic *InsightsController) GetSubjectFeedback(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ic.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	subjectID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid subject ID")
	}

	// Проверяем, что предмет принадлежит пользователю
	var subject models.Subject
	if err := ic.DB.Where("id = ? AND user_id = ?", subjectID, userID).First(&subject).Error; err != nil {
		return utils.NotFound(c, "Subject not found")
	}

	window, err := analytics.ResolveWindow(time.Now().UTC(), analytics.DefaultDashboardDays)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var sessions []models.StudySession
	if err := ic.DB.Where("subject_id = ?", subject.ID).
		Preload("Subject").
		Order("timestamp ASC").
		Find(&sessions).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}

	report := analytics.SubjectFeedback(subject.Name, toSessionRecords(sessions), window)
	return utils.Success(c, fiber.StatusOK, report)
}

// loadUserNoteRecords загружает аудиозаметки пользователя в виде записей
// для движка аналитики
func loadUserNoteRecords(db *gorm.DB, userID uint) ([]analytics.NoteRecord, error) {
	var notes []models.AudioNote
	if err := db.Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&notes).Error; err != nil {
		return nil, err
	}

	records := make([]analytics.NoteRecord, 0, len(notes))
	for _, n := range notes {
		records = append(records, analytics.NoteRecord{
			ID:         n.ID,
			UserID:     n.UserID,
			Transcript: n.Transcript,
			Duration:   n.Duration,
			Timestamp:  n.Timestamp,
		})
	}
	return records, nil
}
