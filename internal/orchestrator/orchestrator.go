// Package orchestrator runs the asynchronous half of each conversation turn:
// everything that happens after the webhook response has already been sent.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ClareAI/astra-voice-bridge/internal/config"
	"github.com/ClareAI/astra-voice-bridge/internal/convstore"
	"github.com/ClareAI/astra-voice-bridge/internal/core/task"
	"github.com/ClareAI/astra-voice-bridge/internal/domain"
	"github.com/ClareAI/astra-voice-bridge/internal/script"
	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"go.uber.org/zap"
)

// ChatStream is one open stream of chat events. Next returns io.EOF at the
// end of the stream.
type ChatStream interface {
	Next() (domain.StreamEvent, error)
	Close() error
}

// ChatClient submits streaming chat requests.
type ChatClient interface {
	StreamChatMessage(ctx context.Context, apiKey string, req domain.ChatMessageRequest) (ChatStream, error)
}

// CallUpdater pushes a replacement TwiML document to an in-progress call.
type CallUpdater interface {
	UpdateLiveCall(ctx context.Context, callSID, twimlDoc string) error
}

// Orchestrator executes utterance tasks: it calls the chat API, accumulates
// the streamed answer, maintains conversation continuity, and mutates the
// live call with the follow-up script. It has no return path to the webhook
// that scheduled the task; the live call update is the only output channel.
type Orchestrator struct {
	assistantName string
	keys          config.APIKeyRing
	chatTimeout   time.Duration
	conversations *convstore.Store
	chat          ChatClient
	calls         CallUpdater
}

// New creates an orchestrator bound to the process-wide conversation store.
func New(cfg *config.BridgeConfig, conversations *convstore.Store, chat ChatClient, calls CallUpdater) *Orchestrator {
	return &Orchestrator{
		assistantName: cfg.DefaultAssistantName,
		keys:          cfg.APIKeys,
		chatTimeout:   time.Duration(cfg.ChatTimeoutSeconds) * time.Second,
		conversations: conversations,
		chat:          chat,
		calls:         calls,
	}
}

// HandleUtterance processes one recognized utterance end to end. Every
// failure converges to the apology-and-restart script so the caller can
// always try again by speaking again; only a failed live call update is
// logged without further recovery, since the channel to the caller is
// exactly what failed.
func (o *Orchestrator) HandleUtterance(ctx context.Context, t task.UtteranceTask) {
	log := logger.Base().With(
		zap.String("task_id", t.TaskID),
		zap.String("call_sid", t.CallSID),
		zap.String("caller", t.Caller),
	)
	log.Info("starting utterance task", zap.String("query", t.Query))

	answer, err := o.runChatTurn(ctx, t, log)

	var doc string
	var buildErr error
	switch {
	case err != nil:
		log.Error("utterance task failed", zap.Error(err))
		doc, buildErr = script.ApologizeAndRestart()
	case strings.TrimSpace(answer) != "":
		doc, buildErr = script.SpeakAndListen(answer)
	default:
		log.Warn("no answer content received from chat api")
		doc, buildErr = script.NoAnswer()
	}
	if buildErr != nil {
		log.Error("failed to build follow-up script", zap.Error(buildErr))
		return
	}

	if err := o.calls.UpdateLiveCall(ctx, t.CallSID, doc); err != nil {
		// The call may already have ended, or the placeholder pause elapsed
		// and its fallback fired. Nothing more can reach the caller.
		log.Error("failed to update live call", zap.Error(err))
		return
	}
	log.Info("utterance task completed")
}

// runChatTurn performs the chat API round trip and returns the accumulated
// answer. The conversation store is only written on a successfully consumed
// stream, so a failed task never disturbs stored continuity.
func (o *Orchestrator) runChatTurn(ctx context.Context, t task.UtteranceTask, log *zap.Logger) (string, error) {
	conversationID, _ := o.conversations.Get(t.Caller)

	apiKey := o.keys.Resolve(o.assistantName)
	if apiKey == "" {
		return "", fmt.Errorf("could not determine api key for assistant: %s", o.assistantName)
	}

	chatReq := domain.NewStreamingChatMessageRequest(t.Query, conversationID, t.Caller)

	chatCtx, cancel := context.WithTimeout(ctx, o.chatTimeout)
	defer cancel()

	stream, err := o.chat.StreamChatMessage(chatCtx, apiKey, chatReq)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var answer strings.Builder
	latestConversationID := conversationID
	for {
		event, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("chat stream read failed: %w", err)
		}
		if event.ConversationID != "" {
			latestConversationID = event.ConversationID
		}
		answer.WriteString(event.Answer)
	}

	if latestConversationID != "" && latestConversationID != conversationID {
		log.Info("updating conversation id",
			zap.String("conversation_id", latestConversationID))
		o.conversations.Set(t.Caller, latestConversationID)
	}

	return answer.String(), nil
}
