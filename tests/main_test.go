package tests

import (
	"os"
	"testing"

	"project/backend/config"
	"project/backend/models"
	"project/backend/routes"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	app      *fiber.App
	db       *gorm.DB
	cfg      *config.Config
	testUser models.User
	jwtToken string
)

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	// Конфигурация тестовой базы
	cfg = &config.Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "postgres",
		DBName:     "study_tracker_test",
		JWTSecret:  "testsecret",
		ServerPort: "8080",
		UploadDir:  "audio_uploads_test",
	}

	var err error
	db, err = utils.InitDB(cfg)
	if err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg)

	// Тестовый пользователь с паролем "password123"
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	testUser = models.User{
		Email:        "test@example.com",
		PasswordHash: string(hash),
	}
	db.Create(&testUser)
}

func teardown() {
	db.Migrator().DropTable(
		&models.User{},
		&models.Subject{},
		&models.StudySession{},
		&models.AudioNote{},
	)
	os.RemoveAll(cfg.UploadDir)
}
