package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-care/config"
	deliveryHttp "clinic-care/internal/delivery/http"
	"clinic-care/internal/delivery/http/handler"
	"clinic-care/internal/delivery/http/middleware"
	"clinic-care/internal/infrastructure/cache"
	"clinic-care/internal/infrastructure/database"
	"clinic-care/internal/repository"
	"clinic-care/internal/service"
	"clinic-care/internal/usecase"
	"clinic-care/pkg/jwt"
	"clinic-care/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	CodeStore   *service.VerificationCodeStore
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Apply database migrations
	if err := database.RunMigrations(cfg.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Verification code store lives for the process lifetime
	codeStore := service.NewVerificationCodeStore(cfg.Verification.CodeTTL, logrus.StandardLogger())
	app.CodeStore = codeStore

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient, codeStore)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, codeStore *service.VerificationCodeStore) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	doctorScheduleRepo := repository.NewDoctorScheduleRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	testTypeRepo := repository.NewTestTypeRepository()
	testResultRepo := repository.NewTestResultRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	mailer := service.NewSMTPMailer(cfg.SMTP)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, doctorProfileRepo, patientProfileRepo, auditService, jwtService, redisClient)
	verificationUsecase := usecase.NewVerificationUsecase(db, log, userRepo, codeStore, mailer, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, doctorScheduleRepo, doctorProfileRepo, patientProfileRepo, auditService, mailer)
	testResultUsecase := usecase.NewTestResultUsecase(db, log, testResultRepo, testTypeRepo, appointmentRepo, doctorProfileRepo, patientProfileRepo, auditService)
	testTypeUsecase := usecase.NewTestTypeUsecase(db, log, testTypeRepo, auditService)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, log, userRepo, doctorProfileRepo, auditService)
	patientProfileUsecase := usecase.NewPatientProfileUsecase(db, log, userRepo, patientProfileRepo, auditService)
	doctorScheduleUsecase := usecase.NewDoctorScheduleUsecase(db, log, doctorScheduleRepo, doctorProfileRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	verificationHandler := handler.NewVerificationHandler(verificationUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	testResultHandler := handler.NewTestResultHandler(testResultUsecase, customValidator)
	testTypeHandler := handler.NewTestTypeHandler(testTypeUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorProfileUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientProfileUsecase, customValidator)
	doctorScheduleHandler := handler.NewDoctorScheduleHandler(doctorScheduleUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		verificationHandler,
		appointmentHandler,
		testResultHandler,
		testTypeHandler,
		doctorHandler,
		patientHandler,
		doctorScheduleHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, code store)
func (app *App) Close() {
	if app.CodeStore != nil {
		app.CodeStore.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
