package controllers

import (
	"math/rand"
	"project/backend/analytics"
	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Предустановленные цвета для предметов
var subjectColors = []string{
	"#3B82F6", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6",
	"#06B6D4", "#F97316", "#84CC16", "#EC4899", "#6366F1",
}

type SubjectsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSubjectsController(db *gorm.DB, cfg *config.Config) *SubjectsController {
	return &SubjectsController{DB: db, Cfg: cfg}
}

// GetSubjects возвращает предметы пользователя
func (sc *SubjectsController) GetSubjects(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var subjects []models.Subject
	if err := sc.DB.Preload("StudySessions").
		Where("user_id = ?", userID).
		Find(&subjects).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch subjects")
	}

	result := make([]fiber.Map, 0, len(subjects))
	for _, s := range subjects {
		result = append(result, subjectToMap(s))
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// CreateSubject создает предмет с уникальным в пределах пользователя именем
func (sc *SubjectsController) CreateSubject(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" {
		return utils.BadRequest(c, "Subject name is required")
	}

	var existing models.Subject
	if err := sc.DB.Where("user_id = ? AND name = ?", userID, input.Name).First(&existing).Error; err == nil {
		return utils.Conflict(c, "Subject with this name already exists")
	}

	// Случайный цвет, если не задан
	if input.Color == "" {
		input.Color = subjectColors[rand.Intn(len(subjectColors))]
	}

	subject := models.Subject{
		Name:   input.Name,
		Color:  input.Color,
		UserID: userID,
	}
	if err := sc.DB.Create(&subject).Error; err != nil {
		return utils.InternalServerError(c, "Could not create subject")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Subject created successfully",
		"subject": subjectToMap(subject),
	})
}

// GetSubject возвращает один предмет пользователя
func (sc *SubjectsController) GetSubject(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	subject, err := sc.findUserSubject(c, userID)
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, subjectToMap(*subject))
}

// UpdateSubject обновляет имя и цвет предмета
func (sc *SubjectsController) UpdateSubject(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	subject, err := sc.findUserSubject(c, userID)
	if err != nil {
		return err
	}

	var input struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != nil && *input.Name != subject.Name {
		var existing models.Subject
		if err := sc.DB.Where("user_id = ? AND name = ?", userID, *input.Name).First(&existing).Error; err == nil {
			return utils.Conflict(c, "Subject with this name already exists")
		}
		subject.Name = *input.Name
	}
	if input.Color != nil {
		subject.Color = *input.Color
	}

	if err := sc.DB.Save(subject).Error; err != nil {
		return utils.InternalServerError(c, "Could not update subject")
	}

	return utils.Message(c, fiber.StatusOK, "Subject updated successfully", subjectToMap(*subject))
}

// DeleteSubject удаляет предмет вместе с его сессиями
func (sc *SubjectsController) DeleteSubject(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	subject, err := sc.findUserSubject(c, userID)
	if err != nil {
		return err
	}

	if err := sc.DB.Select("StudySessions").Delete(subject).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete subject")
	}

	return utils.Message(c, fiber.StatusOK, "Subject deleted successfully", nil)
}

// GetSubjectStats godoc
// @Summary Get per-subject statistics
// @Description Returns aggregated statistics for every subject, sorted by total time
// @Tags subjects
// @Produce json
// @Success 200 {array} analytics.SubjectOverview
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /subjects/stats [get]
func (sc *SubjectsController) GetSubjectStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var subjects []models.Subject
	if err := sc.DB.Where("user_id = ?", userID).Order("id ASC").Find(&subjects).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch subjects")
	}

	records, err := loadUserSessionRecords(sc.DB, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}

	infos := make([]analytics.SubjectInfo, 0, len(subjects))
	for _, s := range subjects {
		infos = append(infos, analytics.SubjectInfo{ID: s.ID, Name: s.Name, Color: s.Color})
	}

	return utils.Success(c, fiber.StatusOK, analytics.SubjectStatsList(infos, records))
}

func (sc *SubjectsController) findUserSubject(c *fiber.Ctx, userID uint) (*models.Subject, error) {
	subjectID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid subject ID")
	}

	var subject models.Subject
	if err := sc.DB.Where("id = ? AND user_id = ?", subjectID, userID).First(&subject).Error; err != nil {
		return nil, utils.NotFound(c, "Subject not found")
	}
	return &subject, nil
}

func subjectToMap(s models.Subject) fiber.Map {
	var totalTime float64
	for _, session := range s.StudySessions {
		totalTime += session.TimeSpent
	}
	return fiber.Map{
		"id":               s.ID,
		"name":             s.Name,
		"color":            s.Color,
		"user_id":          s.UserID,
		"created_at":       s.CreatedAt,
		"total_study_time": totalTime,
	}
}
