package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/ClareAI/astra-voice-bridge/internal/adapters/nextagi"
	"github.com/ClareAI/astra-voice-bridge/internal/adapters/twilioapi"
	"github.com/ClareAI/astra-voice-bridge/internal/config"
	"github.com/ClareAI/astra-voice-bridge/internal/convstore"
	"github.com/ClareAI/astra-voice-bridge/internal/core/task"
	"github.com/ClareAI/astra-voice-bridge/internal/domain"
	"github.com/ClareAI/astra-voice-bridge/internal/orchestrator"
	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"github.com/ClareAI/astra-voice-bridge/pkg/redis"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const healthMessage = "Twilio Voice <-> Next-AGI Chatbot is running!"

// HandlerManager wires all services and registers the application routes.
type HandlerManager struct {
	config        *config.BridgeConfig
	conversations *convstore.Store
	taskBus       task.Bus
	orchestrator  *orchestrator.Orchestrator
}

// NewHandlerManager creates and initializes all handlers and services
func NewHandlerManager(cfg *config.BridgeConfig) (*HandlerManager, error) {
	conversations := convstore.New()

	chatClient := nextagi.NewClient(cfg.NextAGIBaseURL)
	callClient := twilioapi.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken)

	// Default to the in-process channel bus; switch to the Redis bus when a
	// Redis host is configured so replicas can share one task channel.
	var taskBus task.Bus
	if cfg.RedisHost != "" {
		redisSvc, err := redis.NewRedisService(&redis.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err != nil {
			logger.Base().Warn("failed to initialize redis service, falling back to in-process task bus", zap.Error(err))
		} else {
			taskBus = task.NewRedisBus(redisSvc)
			logger.Base().Info("redis task bus initialized",
				zap.String("host", cfg.RedisHost),
				zap.String("port", cfg.RedisPort))
		}
	}
	if taskBus == nil {
		taskBus = task.NewChannelBus(cfg.TaskWorkers)
	}

	orch := orchestrator.New(cfg, conversations, chatStreamer{client: chatClient}, callClient)

	return &HandlerManager{
		config:        cfg,
		conversations: conversations,
		taskBus:       taskBus,
		orchestrator:  orch,
	}, nil
}

// chatStreamer adapts the concrete Next-AGI client to the orchestrator's
// ChatClient interface.
type chatStreamer struct {
	client *nextagi.Client
}

func (c chatStreamer) StreamChatMessage(ctx context.Context, apiKey string, req domain.ChatMessageRequest) (orchestrator.ChatStream, error) {
	stream, err := c.client.StreamChatMessage(ctx, apiKey, req)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// StartTaskProcessor subscribes the orchestrator to the task bus. Each task
// runs under a fresh background context: once scheduled, a task runs to
// completion or failure regardless of webhook or subscription lifetime.
func (hm *HandlerManager) StartTaskProcessor(ctx context.Context) error {
	return hm.taskBus.Subscribe(ctx, func(t task.UtteranceTask) {
		hm.orchestrator.HandleUtterance(context.Background(), t)
	})
}

// SetupAllRoutes sets up all routes with middleware
func (hm *HandlerManager) SetupAllRoutes(router *mux.Router) {
	router.Use(GlobalLoggingMiddleware)

	hm.SetupWebhookRoutes(router)
	hm.SetupAPIRoutes(router)

	router.HandleFunc("/", handleHealth).Methods("GET")

	logger.Base().Info("all application routes registered")
}

// SetupWebhookRoutes registers the Twilio voice webhook routes, optionally
// behind signature validation.
func (hm *HandlerManager) SetupWebhookRoutes(router *mux.Router) {
	webhooks := router.NewRoute().Subrouter()
	if hm.config.ValidateWebhooks && hm.config.PublicBaseURL != "" {
		webhooks.Use(TwilioSignatureMiddleware(hm.config.TwilioAuthToken, hm.config.PublicBaseURL))
		logger.Base().Info("twilio signature validation enabled",
			zap.String("public_base_url", hm.config.PublicBaseURL))
	}

	voiceHandler := NewVoiceWebhookHandler(hm.config, hm.taskBus)
	voiceHandler.SetupVoiceRoutes(webhooks)

	logger.Base().Info("voice webhook routes registered")
}

// SetupAPIRoutes registers the inspection API routes, guarded by the API key
// middleware when SECRET_KEY is set.
func (hm *HandlerManager) SetupAPIRoutes(router *mux.Router) {
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(APIKeyMiddleware(os.Getenv("SECRET_KEY")))

	conversationHandler := NewConversationHandler(hm.conversations)
	conversationHandler.SetupConversationRoutes(apiRouter)

	logger.Base().Info("inspection api routes registered")
}

// GetConversationStore returns the process-wide conversation store.
func (hm *HandlerManager) GetConversationStore() *convstore.Store {
	return hm.conversations
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, healthMessage)
}
