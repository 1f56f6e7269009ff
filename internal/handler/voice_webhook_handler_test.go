package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ClareAI/astra-voice-bridge/internal/config"
	"github.com/ClareAI/astra-voice-bridge/internal/core/task"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	tasks []task.UtteranceTask
}

func (b *recordingBus) Publish(ctx context.Context, t task.UtteranceTask) error {
	b.tasks = append(b.tasks, t)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, handler func(task.UtteranceTask)) error {
	return nil
}

func testBridgeConfig() *config.BridgeConfig {
	return &config.BridgeConfig{
		DefaultAssistantName:   "Xpectrum Assistant",
		ProcessingPauseSeconds: 45,
	}
}

func newTestRouter(bus task.Bus) *mux.Router {
	router := mux.NewRouter()
	NewVoiceWebhookHandler(testBridgeConfig(), bus).SetupVoiceRoutes(router)
	router.HandleFunc("/", handleHealth).Methods("GET")
	return router
}

func postForm(t *testing.T, router *mux.Router, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleInboundCall(t *testing.T) {
	bus := &recordingBus{}
	router := newTestRouter(bus)

	rec := postForm(t, router, "/twilio-voice", url.Values{"From": {"+15551234567"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "Welcome to the Xpectrum Assistant.")
	assert.Contains(t, body, "<Gather")
	assert.Contains(t, body, "/gather")
	assert.Contains(t, body, "<Redirect>/twilio-voice</Redirect>")

	// No background work on call start.
	assert.Empty(t, bus.tasks)
}

func TestHandleGatherSchedulesUtteranceTask(t *testing.T) {
	bus := &recordingBus{}
	router := newTestRouter(bus)

	rec := postForm(t, router, "/gather", url.Values{
		"From":         {"+15551234567"},
		"SpeechResult": {"check my balance"},
		"Confidence":   {"0.92"},
		"CallSid":      {"CA123"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	// The synchronous reply is only the processing placeholder.
	body := rec.Body.String()
	assert.Contains(t, body, "Okay, let me process that.")
	assert.Contains(t, body, "<Pause")
	assert.Contains(t, body, "<Redirect>/twilio-voice</Redirect>")
	assert.NotContains(t, body, "check my balance")

	require.Len(t, bus.tasks, 1)
	scheduled := bus.tasks[0]
	assert.NotEmpty(t, scheduled.TaskID)
	assert.Equal(t, "CA123", scheduled.CallSID)
	assert.Equal(t, "+15551234567", scheduled.Caller)
	assert.Equal(t, "check my balance", scheduled.Query)
}

func TestHandleGatherEmptySpeech(t *testing.T) {
	bus := &recordingBus{}
	router := newTestRouter(bus)

	rec := postForm(t, router, "/gather", url.Values{
		"From":    {"+15551234567"},
		"CallSid": {"CA123"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Sorry, I didn't catch that. Could you please repeat?")
	assert.Contains(t, body, "<Gather")
	assert.Empty(t, bus.tasks)
}

func TestHandleGatherMissingCallSid(t *testing.T) {
	bus := &recordingBus{}
	router := newTestRouter(bus)

	rec := postForm(t, router, "/gather", url.Values{
		"From":         {"+15551234567"},
		"SpeechResult": {"check my balance"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "An internal error occurred. Please hang up and try again.")
	assert.Contains(t, body, "<Hangup")
	assert.NotContains(t, body, "<Gather")
	assert.Empty(t, bus.tasks)
}

func TestHandleGatherRepeatedEventsAreNotDeduplicated(t *testing.T) {
	bus := &recordingBus{}
	router := newTestRouter(bus)

	form := url.Values{
		"From":         {"+15551234567"},
		"SpeechResult": {"check my balance"},
		"CallSid":      {"CA123"},
	}
	postForm(t, router, "/gather", form)
	postForm(t, router, "/gather", form)

	// Identical events always schedule fresh tasks.
	require.Len(t, bus.tasks, 2)
	assert.NotEqual(t, bus.tasks[0].TaskID, bus.tasks[1].TaskID)
}

func TestHandleHealth(t *testing.T) {
	router := newTestRouter(&recordingBus{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Twilio Voice <-> Next-AGI Chatbot is running!", rec.Body.String())
}
