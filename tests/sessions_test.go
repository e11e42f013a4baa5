package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

var subjectID float64

func TestSessions(t *testing.T) {
	t.Run("CreateSubject", testCreateSubject)
	t.Run("CreateSession", testCreateSession)
	t.Run("RejectInvalidFocusLevel", testRejectInvalidFocusLevel)
	t.Run("GetAnalytics", testGetAnalytics)
	t.Run("RejectInvalidDays", testRejectInvalidDays)
	t.Run("GetStreak", testGetStreak)
	t.Run("GetSubjectStats", testGetSubjectStats)
	t.Run("GetWeeklyInsights", testGetWeeklyInsights)
	t.Run("GetAudioStats", testGetAudioStats)
	t.Run("GetRecentAudioNotes", testGetRecentAudioNotes)
}

func testCreateSubject(t *testing.T) {
	payload := map[string]interface{}{"name": "Mathematics", "color": "#3B82F6"}
	jsonData, _ := json.Marshal(payload)

	req := httptest.NewRequest("POST", "/api/subjects/", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	subject := result["subject"].(map[string]interface{})
	assert.Equal(t, "Mathematics", subject["name"])
	subjectID = subject["id"].(float64)
}

func testCreateSession(t *testing.T) {
	payload := map[string]interface{}{
		"subject_id":  subjectID,
		"time_spent":  1.5,
		"topic":       "Calculus",
		"focus_level": 8,
	}
	jsonData, _ := json.Marshal(payload)

	req := httptest.NewRequest("POST", "/api/sessions/", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	session := result["session"].(map[string]interface{})
	assert.Equal(t, "Mathematics", session["subject_name"])
	assert.Equal(t, 1.5, session["time_spent"])
}

func testRejectInvalidFocusLevel(t *testing.T) {
	payload := map[string]interface{}{
		"subject_id":  subjectID,
		"time_spent":  1.0,
		"focus_level": 11,
	}
	jsonData, _ := json.Marshal(payload)

	req := httptest.NewRequest("POST", "/api/sessions/", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func testGetAnalytics(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/sessions/analytics?days=7", nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})

	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, 1.5, summary["total_time"])
	assert.Equal(t, float64(1), summary["total_sessions"])
	assert.Equal(t, float64(8), summary["average_focus_level"])

	subjects := data["subject_breakdown"].(map[string]interface{})
	assert.Contains(t, subjects, "Mathematics")
}

func testRejectInvalidDays(t *testing.T) {
	for _, days := range []string{"0", "-5", "abc"} {
		req := httptest.NewRequest("GET", fmt.Sprintf("/api/sessions/analytics?days=%s", days), nil)
		req.Header.Set("Authorization", jwtToken)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "days=%s", days)
	}
}

func testGetStreak(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/sessions/streak", nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})

	// Сессия создана сегодня
	assert.Equal(t, float64(1), data["current_streak"])
	assert.Equal(t, float64(1), data["longest_streak"])
}

func testGetSubjectStats(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/subjects/stats", nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	stats := result["data"].([]interface{})
	assert.NotEmpty(t, stats)

	first := stats[0].(map[string]interface{})
	assert.Equal(t, "Mathematics", first["name"])
	assert.Equal(t, 1.5, first["total_study_time"])
}

func testGetWeeklyInsights(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/insights/weekly", nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})

	assert.Equal(t, 1.5, data["total_study_time"])
	most := data["most_studied_subject"].(map[string]interface{})
	assert.Equal(t, "Mathematics", most["name"])
}

func testGetAudioStats(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/audio/stats", nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})

	// Аудиозаметок пользователь еще не записывал
	assert.Equal(t, float64(0), data["total_notes"])
	assert.Equal(t, float64(0), data["average_duration_seconds"])
	assert.Empty(t, data["notes_by_day"])
}

func testGetRecentAudioNotes(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/audio/recent", nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Empty(t, result["data"])
}
