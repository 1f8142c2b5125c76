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
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/config"
	"github.com/noah-isme/admissions-go-api/internal/database"
	"github.com/noah-isme/admissions-go-api/internal/handler"
	"github.com/noah-isme/admissions-go-api/internal/middleware"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
	"github.com/noah-isme/admissions-go-api/internal/router"
	"github.com/noah-isme/admissions-go-api/internal/service"
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

	if err := db.AutoMigrate(&models.ApplicationRequest{}, &models.User{}, &models.StudentProfile{}, &models.TeacherProfile{}, &models.ActivityLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	requestRepo := repository.NewApplicationRequestRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentProfileRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	events := service.NewEventPublisher(natsConn, cfg.EventSubject, logger)
	activityService := service.NewActivityService(activityRepo, validate, logger)
	requestService := service.NewRequestService(requestRepo, validate, events, logger)
	approvalService := service.NewApprovalService(requestRepo, approvalRepo, userRepo, studentRepo, events, activityService, logger)
	statsService := service.NewStatsService(requestRepo, redisClient, cfg.StatsCacheTTL, logger)

	requestHandler := handler.NewRequestHandler(requestService, logger)
	adminRequestHandler := handler.NewAdminRequestHandler(requestService, approvalService, logger)
	adminStatsHandler := handler.NewAdminStatsHandler(statsService, logger)
	adminActivityHandler := handler.NewAdminActivityHandler(activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		RequestHandler:       requestHandler,
		AdminRequestHandler:  adminRequestHandler,
		AdminStatsHandler:    adminStatsHandler,
		AdminActivityHandler: adminActivityHandler,
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
		RoleMiddleware:       middleware.RequireRole(string(models.RoleTeacher), string(models.RoleAdmin)),
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
