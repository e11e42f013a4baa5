package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"project/backend/analytics"
	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Допустимые расширения аудиофайлов
var allowedAudioExtensions = map[string]bool{
	"wav": true, "mp3": true, "m4a": true, "ogg": true,
}

type AudioController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAudioController(db *gorm.DB, cfg *config.Config) *AudioController {
	return &AudioController{DB: db, Cfg: cfg}
}

// GetAudioNotes возвращает аудиозаметки пользователя, новые сверху
func (ac *AudioController) GetAudioNotes(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	var notes []models.AudioNote
	if err := ac.DB.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch audio notes")
	}

	result := make([]fiber.Map, 0, len(notes))
	for _, n := range notes {
		result = append(result, audioNoteToMap(n))
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// CreateAudioNote принимает multipart-загрузку аудиофайла
func (ac *AudioController) CreateAudioNote(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return utils.BadRequest(c, "No audio file provided")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if !allowedAudioExtensions[ext] {
		return utils.BadRequest(c, "Invalid file type. Allowed: wav, mp3, m4a, ogg")
	}

	if err := os.MkdirAll(ac.Cfg.UploadDir, 0o755); err != nil {
		return utils.InternalServerError(c, "Could not prepare upload directory")
	}

	filename := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := c.SaveFile(file, filepath.Join(ac.Cfg.UploadDir, filename)); err != nil {
		return utils.InternalServerError(c, "Could not save audio file")
	}

	duration, _ := strconv.ParseFloat(c.FormValue("duration"), 64)
	note := models.AudioNote{
		UserID:     userID,
		AudioURL:   fmt.Sprintf("/%s/%s", ac.Cfg.UploadDir, filename),
		Transcript: c.FormValue("transcript"),
		Duration:   duration,
		Timestamp:  time.Now().UTC(),
	}

	if err := ac.DB.Create(&note).Error; err != nil {
		return utils.InternalServerError(c, "Could not create audio note")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Audio note created successfully",
		"audio_note": audioNoteToMap(note),
	})
}

// GetAudioNote возвращает одну аудиозаметку пользователя
func (ac *AudioController) GetAudioNote(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	note, err := ac.findUserNote(c, userID)
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, audioNoteToMap(*note))
}

// UpdateAudioNote обновляет расшифровку заметки
func (ac *AudioController) UpdateAudioNote(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	note, err := ac.findUserNote(c, userID)
	if err != nil {
		return err
	}

	var input struct {
		Transcript *string `json:"transcript"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Transcript != nil {
		note.Transcript = *input.Transcript
	}

	if err := ac.DB.Save(note).Error; err != nil {
		return utils.InternalServerError(c, "Could not update audio note")
	}

	return utils.Message(c, fiber.StatusOK, "Audio note updated successfully", audioNoteToMap(*note))
}

// DeleteAudioNote удаляет заметку и ее файл
func (ac *AudioController) DeleteAudioNote(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	note, err := ac.findUserNote(c, userID)
	if err != nil {
		return err
	}

	if note.AudioURL != "" {
		// Файл мог быть удален вручную, это не мешает удалению записи
		os.Remove("." + note.AudioURL)
	}

	if err := ac.DB.Delete(note).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete audio note")
	}

	return utils.Message(c, fiber.StatusOK, "Audio note deleted successfully", nil)
}

// GetRecentAudioNotes возвращает заметки за последнюю неделю, не больше десяти
func (ac *AudioController) GetRecentAudioNotes(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)

	var notes []models.AudioNote
	if err := ac.DB.Where("user_id = ? AND timestamp >= ?", userID, weekAgo).
		Order("timestamp DESC").
		Limit(10).
		Find(&notes).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch audio notes")
	}

	result := make([]fiber.Map, 0, len(notes))
	for _, n := range notes {
		result = append(result, audioNoteToMap(n))
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// GetAudioStats godoc
// @Summary Audio notes statistics
// @Description Returns totals, average duration and notes-by-weekday counts
// @Tags audio
// @Produce json
// @Success 200 {object} analytics.AudioStatsReport
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /audio/stats [get]
func (ac *AudioController) GetAudioStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	notes, err := loadUserNoteRecords(ac.DB, userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch audio notes")
	}

	return utils.Success(c, fiber.StatusOK, analytics.AudioStats(notes))
}

func (ac *AudioController) findUserNote(c *fiber.Ctx, userID uint) (*models.AudioNote, error) {
	noteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid audio note ID")
	}

	var note models.AudioNote
	if err := ac.DB.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		return nil, utils.NotFound(c, "Audio note not found")
	}
	return &note, nil
}

func audioNoteToMap(n models.AudioNote) fiber.Map {
	return fiber.Map{
		"id":         n.ID,
		"user_id":    n.UserID,
		"audio_url":  n.AudioURL,
		"transcript": n.Transcript,
		"duration":   n.Duration,
		"timestamp":  n.Timestamp.UTC().Format(time.RFC3339),
	}
}
