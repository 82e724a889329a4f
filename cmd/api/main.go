package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"value-added-framework/config"
	_ "value-added-framework/docs" // Swagger docs
	"value-added-framework/internal/app"
	"value-added-framework/internal/gateway"
	"value-added-framework/internal/httpserver"
	"value-added-framework/internal/middleware"
)

// @title       Value-Added Prompt Framework API
// @description Context injection and session orchestration engine for structured LLM conversations.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := app.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Value-Added Prompt Framework...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Session store
	st, err := app.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error(ctx, "Failed to open session store: ", err)
		return
	}
	defer st.Close()
	logger.Infof(ctx, "Session store: %s", cfg.Store.Driver)

	// 4. Model gateway
	generator, err := app.NewGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize model gateway: ", err)
		return
	}
	for _, p := range generator.Providers() {
		logger.Infof(ctx, "LLM provider: %s (%s)", p.Name(), p.Model())
	}
	gw := gateway.New(logger, generator, app.GatewayConfig(cfg.Framework))

	convCfg, err := app.ConversationConfig(cfg.Framework)
	if err != nil {
		logger.Error(ctx, "Invalid framework config: ", err)
		return
	}

	// 5. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:       logger,
		Port:         cfg.HTTPServer.Port,
		Mode:         cfg.HTTPServer.Mode,
		Environment:  cfg.Environment.Name,
		RateLimit:    middleware.Config{RequestsPerMin: cfg.RateLimit.RequestsPerMin},
		Store:        st,
		Gateway:      gw,
		Conversation: convCfg,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 6. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
