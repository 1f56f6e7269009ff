package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ClareAI/astra-voice-bridge/internal/config"
	"github.com/ClareAI/astra-voice-bridge/internal/handler"
	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Server represents the voice bridge server
type Server struct {
	config         *config.BridgeConfig
	router         *mux.Router
	handlerManager *handler.HandlerManager
}

// NewServer creates a new voice bridge server
func NewServer(cfg *config.BridgeConfig) (*Server, error) {
	// Initialize zap logger and redirect stdlib log to it
	if _, err := logger.Init(os.Getenv("LOG_ENV")); err != nil {
		logger.Base().Error("Failed to initialize zap logger, falling back to std log")
	}

	router := mux.NewRouter()

	// Initialize handler manager - it creates all services internally
	handlerManager, err := handler.NewHandlerManager(cfg)
	if err != nil {
		return nil, err
	}

	handlerManager.SetupAllRoutes(router)

	// Start the utterance task processor after routes are wired
	if err := handlerManager.StartTaskProcessor(context.Background()); err != nil {
		return nil, err
	}

	return &Server{
		config:         cfg,
		router:         router,
		handlerManager: handlerManager,
	}, nil
}

// Start starts the voice bridge server. The read timeout stays well above
// Twilio's webhook delivery time, but note the webhook handlers themselves
// never wait on upstream calls.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Base().Info("Starting server", zap.String("addr", addr))
	return server.ListenAndServe()
}

func main() {
	// Load .env file for local development if it exists.
	// This will not override environment variables set by the deployment.
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: .env file not found or skipped (expected in production): %v", err)
	}

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	defer logger.Sync()

	logger.Base().Info("server initialized",
		zap.String("port", cfg.Port),
		zap.String("assistant", cfg.DefaultAssistantName),
		zap.String("chat_api", cfg.NextAGIBaseURL))
	logger.Base().Info("configure the Twilio number voice webhook",
		zap.String("path", "/twilio-voice"),
		zap.String("method", "POST"))

	if err := server.Start(); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}
