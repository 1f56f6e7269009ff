package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ClareAI/astra-voice-bridge/internal/convstore"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListConversations(t *testing.T) {
	store := convstore.New()
	store.Set("+15551234567", "conv_9")
	store.Set("+15550000001", "conv_12")

	router := mux.NewRouter()
	NewConversationHandler(store).SetupConversationRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload struct {
		Count         int               `json:"count"`
		Conversations map[string]string `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.Count)
	assert.Equal(t, "conv_9", payload.Conversations["+15551234567"])
	assert.Equal(t, "conv_12", payload.Conversations["+15550000001"])
}
