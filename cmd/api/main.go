package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mathquiz/internal/adapter/llm"
	"mathquiz/internal/cache"
	"mathquiz/internal/config"
	"mathquiz/internal/database"
	"mathquiz/internal/handler"
	"mathquiz/internal/logger"
	"mathquiz/internal/middleware"
	"mathquiz/internal/repository"
	"mathquiz/internal/service"
	"mathquiz/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// LLM completion client, shared by generation and repair escalation
	completion, err := llm.NewOpenAIClient(cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	batchValidator := validator.NewBatchValidator(completion, appLogger)

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.DB.DSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	resultRepository := repository.NewResultDatabaseAdapter(db)
	userRepository := repository.NewUserDatabaseAdapter(db)
	schoolRepository := repository.NewSchoolDatabaseAdapter(db)

	// Initialize Redis and the report cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := cache.NewRedisCacheAdapter(redisClient)

	// Initialize services
	quizService := service.NewQuizService(completion, batchValidator, questionRepository)
	resultService := service.NewResultService(resultRepository, questionRepository)
	reportService := service.NewReportService(resultRepository, userRepository, cacheAdapter, cfg.Report.CacheTTL)
	userService := service.NewUserService(userRepository, schoolRepository)

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(quizService)
	resultHandler := handler.NewResultHandler(resultService, reportService)
	reportHandler := handler.NewReportHandler(reportService)
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	// Quiz routes
	apiGroup.Post("/quiz/log", quizHandler.GenerateQuiz)
	apiGroup.Get("/quiz/:batchId", quizHandler.GetQuizByBatchID)

	// Result routes
	apiGroup.Post("/results", resultHandler.SubmitResults)
	apiGroup.Put("/results", resultHandler.UpdateResult)
	apiGroup.Get("/results/:userId", resultHandler.GetStudentResults)

	// Report routes
	apiGroup.Get("/reports/:roomCode", reportHandler.GetClassReport)

	// User and school routes
	apiGroup.Post("/users", userHandler.Register)
	apiGroup.Get("/users/:id", userHandler.GetUser)
	apiGroup.Get("/users/:id/exists", userHandler.CheckIDExists)
	apiGroup.Get("/schools", userHandler.SearchSchools)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
