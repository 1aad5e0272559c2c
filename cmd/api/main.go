package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"linguazone/internal/adapter"
	"linguazone/internal/cache"
	"linguazone/internal/config"
	"linguazone/internal/database"
	"linguazone/internal/handler"
	"linguazone/internal/logger"
	"linguazone/internal/media"
	"linguazone/internal/middleware"
	"linguazone/internal/repository"
	"linguazone/internal/service"

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

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
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

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("RedisCacheAdapter initialized")

	mediaStore, err := media.NewMinioStore(cfg.Storage)
	if err != nil {
		appLogger.Fatal("Failed to connect to media storage", zap.Error(err))
	}
	appLogger.Info("Media store initialized", zap.String("bucket", cfg.Storage.Bucket))

	// Repositories and the shared transaction manager
	txManager := repository.NewTransactionManagerAdapter(db)
	levelRepository := repository.NewLevelDatabaseAdapter(db)
	sectionRepository := repository.NewSectionDatabaseAdapter(db)
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	quizRepository := repository.NewQuizDatabaseAdapter(db)

	// Services
	contentService := service.NewContentService(levelRepository, sectionRepository, questionRepository, quizRepository, txManager)
	questionService := service.NewQuestionService(questionRepository, sectionRepository, txManager, mediaStore, cacheAdapter)
	quizService := service.NewQuizService(quizRepository, levelRepository, txManager, mediaStore, cacheAdapter)

	// Handlers
	contentHandler := handler.NewContentHandler(contentService)
	questionHandler := handler.NewQuestionHandler(questionService)
	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := cacheAdapter.Ping(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "cache unavailable")
		}
		if err := db.PingContext(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	apiGroup := app.Group("/api")
	admin := middleware.Protected(cfg.Auth.JWTSecret)
	adminOnly := middleware.AdminOnly()

	// Level and section routes
	apiGroup.Get("/levels", contentHandler.ListLevels)
	apiGroup.Get("/levels/:id", contentHandler.GetLevel)
	apiGroup.Post("/levels", admin, adminOnly, contentHandler.CreateLevel)
	apiGroup.Put("/levels/:id", admin, adminOnly, contentHandler.UpdateLevel)
	apiGroup.Delete("/levels/:id", admin, adminOnly, contentHandler.DeleteLevel)

	apiGroup.Get("/sections", contentHandler.ListSections)
	apiGroup.Get("/sections/:id", contentHandler.GetSection)
	apiGroup.Post("/sections", admin, adminOnly, contentHandler.CreateSection)
	apiGroup.Put("/sections/:id", admin, adminOnly, contentHandler.UpdateSection)
	apiGroup.Delete("/sections/:id", admin, adminOnly, contentHandler.DeleteSection)

	// Question routes
	apiGroup.Get("/questions", questionHandler.ListQuestions)
	apiGroup.Get("/questions/:id", questionHandler.GetQuestion)
	apiGroup.Post("/questions", admin, adminOnly, questionHandler.CreateQuestion)
	apiGroup.Put("/questions/:id", admin, adminOnly, questionHandler.UpdateQuestion)
	apiGroup.Delete("/questions/:id", admin, adminOnly, questionHandler.DeleteQuestion)
	apiGroup.Post("/questions/:id/choices", admin, adminOnly, questionHandler.AddChoices)
	apiGroup.Put("/questions/:id/choices/:choiceID", admin, adminOnly, questionHandler.UpdateChoice)
	apiGroup.Delete("/questions/:id/choices/:choiceID", admin, adminOnly, questionHandler.DeleteChoice)

	// Quiz routes
	apiGroup.Get("/quizzes", quizHandler.ListQuizzes)
	apiGroup.Get("/quizzes/by-level/:levelID", quizHandler.GetQuizByLevel)
	apiGroup.Get("/quizzes/:id", quizHandler.GetQuiz)
	apiGroup.Post("/quizzes", admin, adminOnly, quizHandler.CreateQuiz)
	apiGroup.Put("/quizzes/questions/:id", admin, adminOnly, quizHandler.UpdateQuizQuestion)
	apiGroup.Delete("/quizzes/questions/:id", admin, adminOnly, quizHandler.DeleteQuizQuestion)
	apiGroup.Put("/quizzes/:id", admin, adminOnly, quizHandler.UpdateQuiz)
	apiGroup.Delete("/quizzes/:id", admin, adminOnly, quizHandler.DeleteQuiz)
	apiGroup.Post("/quizzes/:id/questions", admin, adminOnly, quizHandler.AddQuizQuestion)
	apiGroup.Put("/quizzes/:id/questions", admin, adminOnly, quizHandler.ReplaceQuizQuestions)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
