package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/api/handlers"
	"github.com/issa-compass/backend/internal/assistant"
	"github.com/issa-compass/backend/internal/llm"
	"github.com/issa-compass/backend/internal/metrics"
	"github.com/issa-compass/backend/internal/middleware/ratelimit"
	"github.com/issa-compass/backend/internal/middleware/security"
	"github.com/issa-compass/backend/internal/store/activitylog"
	"github.com/issa-compass/backend/internal/store/promptstore"
	"github.com/issa-compass/backend/pkg/config"
	appLogger "github.com/issa-compass/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Issa Compass API Server")

	metrics.Init()

	basePrompt := loadPrompt(cfg.Prompt.BasePath, assistant.DefaultBasePrompt)
	editorPrompt := loadPrompt(cfg.Prompt.EditorPath, assistant.DefaultEditorPrompt)

	prompts := promptstore.New(basePrompt)
	activity := activitylog.New()

	gateway, err := llm.NewGateway(context.Background(), cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM gateway", zap.Error(err))
	}

	service := assistant.NewService(prompts, activity, gateway, editorPrompt)

	metrics.PromptVersion.Set(float64(prompts.CurrentVersion()))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Server.Environment == "development",
	}))
	app.Use(limiter.Middleware())

	replyHandler := handlers.NewReplyHandler(service)
	promptHandler := handlers.NewPromptHandler(service, prompts)
	conversationHandler := handlers.NewConversationHandler(activity)
	performanceHandler := handlers.NewPerformanceHandler(activity)
	documentHandler := handlers.NewDocumentHandler(activity)
	trainingHandler := handlers.NewTrainingHandler(service, cfg.Training.CorpusPath, cfg.Training.MaxSequences)
	wsHandler := handlers.NewWebSocketHandler(service)

	api := app.Group("/api/v1")

	api.Post("/reply", replyHandler.GenerateReply)

	api.Get("/prompt", promptHandler.GetPrompt)
	api.Post("/improve", promptHandler.ImproveAuto)
	api.Post("/improve/manual", promptHandler.ImproveManual)
	api.Get("/prompt/history", promptHandler.GetHistory)
	api.Get("/prompt/diff", promptHandler.GetDiff)

	api.Get("/conversations", conversationHandler.ListConversations)
	api.Post("/conversations/search", conversationHandler.SearchConversations)
	api.Get("/conversations/export", conversationHandler.ExportConversations)

	api.Get("/performance", performanceHandler.GetPerformance)

	api.Post("/documents", documentHandler.UploadDocument)
	api.Get("/documents", documentHandler.ListDocuments)

	api.Get("/training/run", trainingHandler.RunTraining)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Unix(),
			"providers": gateway.Providers(),
			"version":   prompts.CurrentVersion(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

// loadPrompt reads a prompt file, falling back to the built-in text when
// the file is absent.
func loadPrompt(path, fallback string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		appLogger.Warn("Prompt file not found, using built-in default",
			zap.String("path", path),
		)
		return fallback
	}
	return string(data)
}
