package controllers

import (
	"errors"
	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"
	"regexp"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

// Signup godoc
// @Summary Register a new user
// @Description Creates a new user account and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /auth/signup [post]
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var input struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		AcademicGoal string `json:"academic_goal"`
		FocusAreas   string `json:"focus_areas"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}
	if !emailPattern.MatchString(input.Email) {
		return utils.BadRequest(c, "Invalid email format")
	}
	if len(input.Password) < 8 {
		return utils.BadRequest(c, "Password must be at least 8 characters long")
	}

	// Check if user already exists
	var existing models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return utils.Conflict(c, "User with this email already exists")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		AcademicGoal: input.AcademicGoal,
		FocusAreas:   input.FocusAreas,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"token":   token,
		"user":    userToMap(user),
	})
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	// Find user
	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid email or password")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    userToMap(user),
	})
}

// userToMap формирует публичное представление пользователя без
// чувствительных полей
func userToMap(user models.User) fiber.Map {
	return fiber.Map{
		"id":            user.ID,
		"email":         user.Email,
		"role":          user.Role,
		"academic_goal": user.AcademicGoal,
		"focus_areas":   user.FocusAreas,
		"created_at":    user.CreatedAt,
	}
}
