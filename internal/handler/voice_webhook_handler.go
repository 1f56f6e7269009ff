package handler

import (
	"context"
	"net/http"

	"github.com/ClareAI/astra-voice-bridge/internal/config"
	"github.com/ClareAI/astra-voice-bridge/internal/core/task"
	"github.com/ClareAI/astra-voice-bridge/internal/script"
	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// VoiceWebhookHandler answers Twilio voice webhooks. Every response is
// produced synchronously from local state; all upstream work is handed to
// the task bus so the webhook path never waits on a network call.
type VoiceWebhookHandler struct {
	config  *config.BridgeConfig
	taskBus task.Bus
}

// NewVoiceWebhookHandler creates a new voice webhook handler
func NewVoiceWebhookHandler(cfg *config.BridgeConfig, taskBus task.Bus) *VoiceWebhookHandler {
	return &VoiceWebhookHandler{config: cfg, taskBus: taskBus}
}

// SetupVoiceRoutes registers the Twilio webhook routes
func (h *VoiceWebhookHandler) SetupVoiceRoutes(router *mux.Router) {
	router.HandleFunc(script.VoicePath, h.HandleInboundCall).Methods("POST")
	router.HandleFunc(script.GatherPath, h.HandleGather).Methods("POST")
}

// HandleInboundCall answers the initial call webhook with the greeting and
// the first speech prompt.
func (h *VoiceWebhookHandler) HandleInboundCall(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	fromNumber := r.FormValue("From")

	logger.Base().Info("incoming call", zap.String("caller", fromNumber))

	doc, err := script.Greeting(h.config.DefaultAssistantName)
	if err != nil {
		logger.Base().Error("failed to build greeting script", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeTwiML(w, doc)
}

// HandleGather processes a speech-result webhook. With recognized text and a
// call sid it replies with the processing placeholder and schedules an
// utterance task; with no text it asks the caller to repeat; with no call
// sid it apologizes and hangs up, since without an identifier the call can
// never be updated again.
func (h *VoiceWebhookHandler) HandleGather(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	fromNumber := r.FormValue("From")
	speechResult := r.FormValue("SpeechResult")
	confidence := r.FormValue("Confidence")
	callSID := r.FormValue("CallSid")

	logger.Base().Info("gather result",
		zap.String("caller", fromNumber),
		zap.String("call_sid", callSID),
		zap.String("speech", speechResult),
		zap.String("confidence", confidence))

	switch {
	case speechResult != "" && callSID != "":
		doc, err := script.Processing(h.config.ProcessingPauseSeconds)
		if err != nil {
			logger.Base().Error("failed to build processing script", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeTwiML(w, doc)
		h.scheduleUtteranceTask(callSID, fromNumber, speechResult)

	case speechResult == "":
		logger.Base().Info("no speech detected", zap.String("call_sid", callSID))
		doc, err := script.Retry()
		if err != nil {
			logger.Base().Error("failed to build retry script", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeTwiML(w, doc)

	default:
		logger.Base().Error("missing call sid in gather request",
			zap.String("caller", fromNumber))
		doc, err := script.ApologizeAndHangup()
		if err != nil {
			logger.Base().Error("failed to build hangup script", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeTwiML(w, doc)
	}
}

// scheduleUtteranceTask publishes the background task after the placeholder
// response is already written. The webhook request context is not used: the
// task outlives this request by design.
func (h *VoiceWebhookHandler) scheduleUtteranceTask(callSID, caller, query string) {
	t := task.UtteranceTask{
		TaskID:  uuid.NewString(),
		CallSID: callSID,
		Caller:  caller,
		Query:   query,
	}
	if err := h.taskBus.Publish(context.Background(), t); err != nil {
		// The caller is on the placeholder script; its embedded pause and
		// fallback redirect recover the call without our help.
		logger.Base().Error("failed to publish utterance task",
			zap.Error(err),
			zap.String("call_sid", callSID))
	}
}

func writeTwiML(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
