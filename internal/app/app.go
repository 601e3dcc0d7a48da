package app

import (
	"fmt"
	"os"
	"time"

	"phonebook_backend/database"
	"phonebook_backend/internal/auth"
	"phonebook_backend/internal/config"
	"phonebook_backend/internal/email"
	"phonebook_backend/internal/handlers"
	"phonebook_backend/internal/imageprocessor"
	"phonebook_backend/internal/logger"
	"phonebook_backend/internal/middleware"
	"phonebook_backend/internal/repositories"
	"phonebook_backend/internal/routes"
	"phonebook_backend/internal/services"
	"phonebook_backend/internal/storage"
	"phonebook_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	cfg := config.Load()
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.JWT.Secret == "" {
		logger.Fatal("SECRET_KEY is not configured")
	}

	logger.Info("Connecting to database...")
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	mailer := email.NewSMTPSender(cfg)
	router := SetupRouter(cfg, db, mailer)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services and handlers into a gin
// engine. Tests call it directly with a sqlite handle and a fake mailer.
func SetupRouter(cfg *config.Config, db *gorm.DB, mailer email.Sender) *gin.Engine {
	if err := os.MkdirAll(cfg.Storage.TmpDir, 0o755); err != nil {
		logger.Fatal("Failed to create tmp dir", "error", err)
	}
	store, err := storage.NewLocalStorage(cfg.Storage.AvatarDir)
	if err != nil {
		logger.Fatal("Failed to initialize avatar storage", "error", err)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	userRepo := repositories.NewUserRepository()
	contactRepo := repositories.NewContactRepository()

	processor := imageprocessor.NewProcessor(85)

	serviceContainer := &services.ServiceContainer{
		AuthService:    services.NewAuthService(userRepo, tokens, mailer),
		UserService:    services.NewUserService(userRepo, processor, store),
		ContactService: services.NewContactService(contactRepo),
	}

	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	appHandlers := &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, serviceContainer.AuthService),
		UserHandler:    handlers.NewUserHandler(baseHandler, serviceContainer.UserService, cfg.Storage.TmpDir),
		ContactHandler: handlers.NewContactHandler(baseHandler, serviceContainer.ContactService),
	}

	router := newGinRouter(cfg, db)
	authMiddleware := middleware.AuthMiddleware(tokens, userRepo)
	routes.RegisterRoutes(router, appHandlers, authMiddleware, cfg.Storage.AvatarDir)

	return router
}

func newGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
