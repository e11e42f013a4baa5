package tests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	t.Run("Signup", testSignup)
	t.Run("SignupDuplicate", testSignupDuplicate)
	t.Run("Login", testLogin)
	t.Run("GetProfile", testGetProfile)
	t.Run("GetProfileBearerPrefix", testGetProfileBearerPrefix)
}

func testSignup(t *testing.T) {
	signupData := map[string]string{
		"email":         "newuser@example.com",
		"password":      "password123",
		"academic_goal": "Pass the exams",
	}
	jsonData, _ := json.Marshal(signupData)

	req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.NotEmpty(t, result["token"])
	assert.NotEmpty(t, result["user"])
}

func testSignupDuplicate(t *testing.T) {
	signupData := map[string]string{
		"email":    "newuser@example.com",
		"password": "password123",
	}
	jsonData, _ := json.Marshal(signupData)

	req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func testLogin(t *testing.T) {
	loginData := map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	}
	jsonData, _ := json.Marshal(loginData)

	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.NotEmpty(t, result["token"])

	jwtToken = result["token"].(string)
}

func testGetProfile(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	user := result["data"].(map[string]interface{})
	assert.Equal(t, "test@example.com", user["email"])
	assert.Equal(t, "student", user["role"])
}

func testGetProfileBearerPrefix(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
