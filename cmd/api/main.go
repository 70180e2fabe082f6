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

	"github.com/lumora-edu/lumora-api/internal/config"
	"github.com/lumora-edu/lumora-api/internal/database"
	"github.com/lumora-edu/lumora-api/internal/handler"
	"github.com/lumora-edu/lumora-api/internal/middleware"
	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/repository"
	"github.com/lumora-edu/lumora-api/internal/router"
	"github.com/lumora-edu/lumora-api/internal/service"
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
		&models.Course{},
		&models.Topic{},
		&models.Question{},
		&models.Enrollment{},
		&models.Grade{},
		&models.Workbook{},
		&models.AuditEntry{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	workbookRepo := repository.NewWorkbookRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	uow := repository.NewUnitOfWork(db)

	auditService := service.NewAuditService(auditRepo, logger)
	events := service.NewGradeEventPublisher(natsConn, logger)
	gradebookService := service.NewGradebookService(gradeRepo, redisClient, cfg.GradebookCacheTTL, logger)
	regradeService := service.NewRegradeService(topicRepo, gradeRepo, uow, events, gradebookService, auditService, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	topicService := service.NewTopicService(topicRepo, courseRepo, regradeService, auditService, validate, logger)
	questionService := service.NewQuestionService(questionRepo, topicRepo, regradeService, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logger)
	gradeService := service.NewGradeService(gradeRepo, auditService, logger)
	submissionService := service.NewSubmissionService(
		questionRepo,
		enrollmentRepo,
		gradeRepo,
		workbookRepo,
		uow,
		events,
		gradebookService,
		validate,
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		TopicHandler:      handler.NewTopicHandler(topicService, regradeService, logger),
		QuestionHandler:   handler.NewQuestionHandler(questionService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		GradeHandler:      handler.NewGradeHandler(gradeService, logger),
		GradebookHandler:  handler.NewGradebookHandler(gradebookService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
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
