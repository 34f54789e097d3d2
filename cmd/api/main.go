package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schooldesk/schooldesk-api/internal/config"
	"github.com/schooldesk/schooldesk-api/internal/database"
	"github.com/schooldesk/schooldesk-api/internal/handler"
	"github.com/schooldesk/schooldesk-api/internal/middleware"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
	"github.com/schooldesk/schooldesk-api/internal/router"
	"github.com/schooldesk/schooldesk-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Batch{},
		&models.Class{},
		&models.Subject{},
		&models.Student{},
		&models.StudentClassEnrollment{},
		&models.FeeStructure{},
		&models.FeeCollection{},
		&models.StudentLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	feeStructureRepo := repository.NewFeeStructureRepository(db)
	feeCollectionRepo := repository.NewFeeCollectionRepository(db)
	studentLogRepo := repository.NewStudentLogRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(userRepo, validate, logger)
	batchService := service.NewBatchService(batchRepo, validate, logger)
	classService := service.NewClassService(classRepo, batchRepo, validate, logger)
	subjectService := service.NewSubjectService(subjectRepo, classRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, classRepo, feeStructureRepo, validate, logger)
	feeStructureService := service.NewFeeStructureService(feeStructureRepo, classRepo, validate, logger)
	feeLedgerService := service.NewFeeLedgerService(studentRepo, feeStructureRepo, feeCollectionRepo, validate, logger)
	reportService := service.NewReportService(studentRepo, feeStructureRepo, feeCollectionRepo, logger)
	dashboardService := service.NewDashboardService(dashboardRepo, batchRepo, studentLogRepo, feeCollectionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		BatchHandler:        handler.NewBatchHandler(batchService, logger),
		ClassHandler:        handler.NewClassHandler(classService, logger),
		SubjectHandler:      handler.NewSubjectHandler(subjectService, logger),
		StudentHandler:      handler.NewStudentHandler(studentService, logger),
		FeeStructureHandler: handler.NewFeeStructureHandler(feeStructureService, logger),
		FeePaymentHandler:   handler.NewFeePaymentHandler(feeLedgerService, logger),
		ReportHandler:       handler.NewReportHandler(reportService, logger),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		UserHandler:         handler.NewUserHandler(userService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
